package database

import (
	"context"
	"errors"

	"github.com/charmbracelet/log"
	"github.com/jon4hz/leafcheck/internal/store"
	"gorm.io/gorm"
)

// User represents a registered account in the database.
// It explicitly doesn't track if a user is an admin.
// The admin account is configured statically and its status lives in the session.
type User struct {
	gorm.Model
	Identifier string `gorm:"uniqueIndex;not null"`
	FirstName  string
	LastName   string
	Password   string `gorm:"not null"`
}

func (u *User) toAccount() store.Account {
	return store.Account{
		Identifier: u.Identifier,
		FirstName:  u.FirstName,
		LastName:   u.LastName,
		Password:   u.Password,
		CreatedAt:  u.CreatedAt,
	}
}

func userFromAccount(a store.Account) User {
	u := User{
		Identifier: a.Identifier,
		FirstName:  a.FirstName,
		LastName:   a.LastName,
		Password:   a.Password,
	}
	u.CreatedAt = a.CreatedAt
	return u
}

func (c *Client) LoadAccounts(ctx context.Context) (map[string]store.Account, error) {
	var users []User
	if err := c.db.WithContext(ctx).Find(&users).Error; err != nil {
		log.Error("failed to load users", "error", err)
		return nil, err
	}
	accounts := make(map[string]store.Account, len(users))
	for i := range users {
		accounts[users[i].Identifier] = users[i].toAccount()
	}
	return accounts, nil
}

func (c *Client) SaveAccounts(ctx context.Context, accounts map[string]store.Account) error {
	err := c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Where("1 = 1").Delete(&User{}).Error; err != nil {
			return err
		}
		for _, a := range accounts {
			u := userFromAccount(a)
			if err := tx.Create(&u).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		log.Error("failed to save users", "error", err)
		return err
	}
	return nil
}

func (c *Client) CreateAccount(ctx context.Context, account store.Account) error {
	err := c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&User{}).Where("identifier = ?", account.Identifier).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return store.ErrDuplicate
		}
		u := userFromAccount(account)
		return tx.Create(&u).Error
	})
	if err != nil && !errors.Is(err, store.ErrDuplicate) {
		log.Error("failed to create user", "error", err)
	}
	return err
}

func (c *Client) GetAccount(ctx context.Context, identifier string) (*store.Account, error) {
	var user User
	if err := c.db.WithContext(ctx).Where("identifier = ?", identifier).First(&user).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Error("failed to get user by identifier", "error", err)
		}
		return nil, notFound(err)
	}
	a := user.toAccount()
	return &a, nil
}

func (c *Client) UpdateAccount(ctx context.Context, account store.Account) error {
	updates := map[string]any{
		"first_name": account.FirstName,
		"last_name":  account.LastName,
	}
	if account.Password != "" {
		updates["password"] = account.Password
	}
	result := c.db.WithContext(ctx).Model(&User{}).Where("identifier = ?", account.Identifier).Updates(updates)
	if result.Error != nil {
		log.Error("failed to update user", "error", result.Error)
		return result.Error
	}
	if result.RowsAffected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (c *Client) RemoveAccount(ctx context.Context, identifier string) error {
	result := c.db.WithContext(ctx).Unscoped().Where("identifier = ?", identifier).Delete(&User{})
	if result.Error != nil {
		log.Error("failed to delete user", "error", result.Error)
		return result.Error
	}
	if result.RowsAffected == 0 {
		return store.ErrNotFound
	}
	return nil
}
