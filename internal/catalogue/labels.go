package catalogue

// englishLabels are the class folders of the desktop model, in training order.
var englishLabels = []string{
	"Apple___Apple_scab",
	"Apple___Black_rot",
	"Apple___Cedar_apple_rust",
	"Apple___healthy",
	"Blueberry___healthy",
	"Cherry_(including_sour)___Powdery_mildew",
	"Cherry_(including_sour)___healthy",
	"Corn_(maize)___Cercospora_leaf_spot Gray_leaf_spot",
	"Corn_(maize)___Common_rust_",
	"Corn_(maize)___Northern_Leaf_Blight",
	"Corn_(maize)___healthy",
	"Grape___Black_rot",
	"Grape___Esca_(Black_Measles)",
	"Grape___Leaf_blight_(Isariopsis_Leaf_Spot)",
	"Grape___healthy",
	"Orange___Haunglongbing_(Citrus_greening)",
	"Peach___Bacterial_spot",
	"Peach___healthy",
	"Pepper,_bell___Bacterial_spot",
	"Pepper,_bell___healthy",
	"Potato___Early_blight",
	"Potato___Late_blight",
	"Potato___healthy",
	"Raspberry___healthy",
	"Soybean___healthy",
	"Squash___Powdery_mildew",
	"Strawberry___Leaf_scorch",
	"Strawberry___healthy",
	"Tomato___Bacterial_spot",
	"Tomato___Early_blight",
	"Tomato___Late_blight",
	"Tomato___Leaf_Mold",
	"Tomato___Septoria_leaf_spot",
	"Tomato___Spider_mites Two-spotted_spider_mite",
	"Tomato___Target_Spot",
	"Tomato___Tomato_Yellow_Leaf_Curl_Virus",
	"Tomato___Tomato_mosaic_virus",
	"Tomato___healthy",
}

// bengaliLabels are the mobile model classes as {name, cause, remedy}, in model output order.
// The mobile model has two sweet potato slots, both are kept so indices line up.
var bengaliLabels = [][3]string{
	{"আপেল স্ক্যাব", "আর্দ্র আবহাওয়া ও অতিরিক্ত পানির কারণে ছত্রাক জন্মায়।", "আক্রান্ত পাতা ছেঁটে ফেলুন এবং কপার ছত্রাকনাশক স্প্রে করুন। নিয়মিত ছাঁটাই ও পানি নিষ্কাশনের ব্যবস্থা নিন।"},
	{"আপেল ব্ল্যাক রট", "পচা ফল বা পুরনো ডালে ছত্রাক জন্ম নিয়ে ছড়ায়।", "পচা ফল ও ডাল কেটে ফেলুন এবং ছত্রাকনাশক ব্যবহার করুন। গাছের নিচে পড়ে থাকা ফল নিয়মিত পরিষ্কার করুন।"},
	{"সিডার আপেল রস্ট", "আপেল গাছের কাছে সিডার গাছ থাকলে ছত্রাক ছড়ায়।", "সিডার গাছ সরান এবং ছত্রাকনাশক ব্যবহার করুন। কাছাকাছি সিডার গাছ না রাখলে রোগ হবে না।"},
	{"আপেল___সুস্থ (গাছটি সুস্থ! 🌱)", "", "গাছকে সুস্থ রাখতে নিয়মিত পানি এবং আলো ও সার দেওয়া উচিত।"},
	{"ব্লুবেরি___সুস্থ (গাছটি সুস্থ! 🌱)", "", "গাছকে সুস্থ রাখতে নিয়মিত পানি এবং আলো ও সার দেওয়া উচিত।"},
	{"চেরি পাউডারি মিলডিউ", "শুষ্ক আবহাওয়ায় পাতায় ছত্রাকের স্তর জমে।", "সালফার স্প্রে দিন এবং বাতাস চলাচলের ব্যবস্থা রাখুন। গাছ খুব ঘন না হলে রোগ কম হয়।"},
	{"চেরি (টকসহ)___সুস্থ (গাছটি সুস্থ! 🌱)", "", "গাছকে সুস্থ রাখতে নিয়মিত পানি এবং আলো ও সার দেওয়া উচিত।"},
	{"ভুট্টা সারকোসপোরা পাতা দাগ", "গরম ও আর্দ্র আবহাওয়া।", "পাতা ছেঁটে ফেলুন এবং ছত্রাকনাশক স্প্রে করুন। সঠিক পানি সরবরাহ নিশ্চিত করুন।"},
	{"ভুট্টা কমন রস্ট", "আর্দ্র ও ঠাণ্ডা আবহাওয়ায় ছত্রাকের বীজ ছড়ায়।", "রোগমুক্ত জাত লাগান এবং ছত্রাকনাশক ব্যবহার করুন। জমিতে আগের রোগমুক্ত ফসল চাষে সাহায্য পাবে।"},
	{"ভুট্টা নর্দার্ন পাতা ব্লাইট", "আর্দ্র আবহাওয়া ও দীর্ঘ সময় বৃষ্টির কারণে ছত্রাক আক্রমণ।", "গাছের ঘনত্ব কমিয়ে দিন এবং রোগমুক্ত জাত ব্যবহার করুন।"},
	{"ভুট্টা___সুস্থ (গাছটি সুস্থ! 🌱)", "", "গাছকে সুস্থ রাখতে নিয়মিত পানি এবং আলো ও সার দেওয়া উচিত।"},
	{"আঙ্গুর ব্ল্যাক রট", "আর্দ্র আবহাওয়া ও পচা ফল থেকে ছত্রাক ছড়ায়।", "আক্রান্ত ফল ও ডাল কেটে ফেলুন এবং ছত্রাকনাশক ব্যবহার করুন।"},
	{"আঙ্গুর এসকা (ব্ল্যাক মিজলস)", "অতিরিক্ত আর্দ্রতা ও দীর্ঘকালীন উচ্চ তাপমাত্রা।", "আক্রান্ত লতা সরিয়ে ফেলুন এবং ছত্রাকনাশক স্প্রে করুন।"},
	{"আঙ্গুর পাতা ব্লাইট (আইসারিওপসিস পাতা দাগ)", "বৃষ্টি ও আর্দ্রতার কারণে ছত্রাক ছড়ায়।", "গাছের ডাল ছেঁটে ফেলুন এবং ছত্রাকনাশক স্প্রে করুন।"},
	{"আঙ্গুর___সুস্থ --- (গাছটি সুস্থ! 🌱)", "", "গাছকে সুস্থ রাখতে নিয়মিত পানি আলো ও সার দেওয়া উচিত।"},
	{"কমলা হুয়াংলংবিং (সাইট্রাস গ্রিনিং)", "সাদা মাছি দ্বারা ভাইরাস সংক্রমণ।", "সাদা মাছি নিয়ন্ত্রণ করুন এবং আক্রান্ত গাছ সরান।"},
	{"পিচ ব্যাকটেরিয়াল স্পট", "আর্দ্র আবহাওয়া ও উচ্চ তাপমাত্রা।", "তামা ভিত্তিক ছত্রাকনাশক ব্যবহার করুন। আক্রান্ত গাছ সরান।"},
	{"পিচ___সুস্থ (গাছটি সুস্থ! 🌱)", "", "গাছকে সুস্থ রাখতে নিয়মিত পানি এবং আলো ও সার দেওয়া উচিত।"},
	{"বেল মরিচ ব্যাকটেরিয়াল স্পট", "শীতল ও আর্দ্র আবহাওয়া।", "বেল মরিচের ডাল ও পাতা ছেঁটে ফেলুন এবং কপার স্প্রে ব্যবহার করুন।"},
	{"বেল মরিচ___সুস্থ (গাছটি সুস্থ! 🌱)", "", "গাছকে সুস্থ রাখতে নিয়মিত পানি আলো ও সার দেওয়া উচিত।"},
	{"আলু আর্লি ব্লাইট", "শীতল ও আর্দ্র আবহাওয়া।", "অস্তিত্বশীল আলু জাত ব্যবহার করুন এবং সঠিক সার ও পানি ব্যবহার করুন।"},
	{"আলু লেট ব্লাইট", "ঠাণ্ডা ও আর্দ্র পরিবেশে ছত্রাকের বৃদ্ধি।", "ছত্রাকনাশক স্প্রে করুন এবং জমিতে আগের রোগমুক্ত ফসল চাষ করুন।"},
	{"আলু___সুস্থ (গাছটি সুস্থ! 🌱)", "", "গাছকে সুস্থ রাখতে নিয়মিত পানি আলো ও সার দেওয়া উচিত।"},
	{"রাস্পবেরি___সুস্থ (গাছটি সুস্থ! 🌱)", "", "গাছকে সুস্থ রাখতে নিয়মিত পানি আলো ও সার দেওয়া উচিত।"},
	{"সয়াবিন___সুস্থ (গাছটি সুস্থ! 🌱)", "", "গাছকে সুস্থ রাখতে নিয়মিত পানি আলো ও সার দেওয়া উচিত।"},
	{"স্কোয়াশ পাউডারি মিলডিউ", "আর্দ্র আবহাওয়া ও কম বাতাস চলাচল।", "সালফার স্প্রে দিন বাতাস চলাচলের ব্যবস্থা রাখুন।"},
	{"স্ট্রবেরি পাতার স্কর্চ", "গরম ও আর্দ্র আবহাওয়া।", "পাতা ছেঁটে ফেলুন এবং ছত্রাকনাশক স্প্রে করুন।"},
	{"স্ট্রবেরি___সুস্থ (গাছটি সুস্থ! 🌱)", "", "গাছকে সুস্থ রাখতে নিয়মিত পানি আলো ও সার দেওয়া উচিত।"},
	{"মিষ্টি আলু সুস্থ (গাছটি সুস্থ! 🌱)", "---", "গাছকে সুস্থ রাখতে নিয়মিত পানি আলো ও সার দেওয়া উচিত।"},
	{"টমেটো ব্যাকটেরিয়াল স্পট", "অতিরিক্ত আর্দ্রতা ও সঠিক পরিচর্যার অভাব।", "কপার ছত্রাকনাশক স্প্রে করুন।"},
	{"মিষ্টি আলু সুস্থ (গাছটি সুস্থ! 🌱)", "---", "গাছকে সুস্থ রাখতে নিয়মিত পানি আলো ও সার দেওয়া উচিত।"},
	{"টমেটো লেট ব্লাইট", "গরম ও আর্দ্র আবহাওয়া।", "রোগমুক্ত জাত ব্যবহার করুন এবং ছত্রাকনাশক স্প্রে করুন।"},
	{"টমেটো পাতার ছাঁচ", "ঠাণ্ডা ও আর্দ্র আবহাওয়া।", "আক্রান্ত অংশ ছেঁটে ফেলুন এবং ছত্রাকনাশক প্রয়োগ করুন।"},
	{"টমেটো সেপ্টোরিয়া দাগ", "আর্দ্র আবহাওয়া।", "আক্রান্ত অংশ কেটে ফেলুন এবং ছত্রাকনাশক ব্যবহার করুন।"},
	{"টমেটো স্পাইডার মাইট", "গরম ও শুকনো আবহাওয়া।", "নিম তেল স্প্রে করুন এবং পোকা নিয়ন্ত্রণ করুন।"},
	{"টমেটো টার্গেট স্পট", "গরম ও আর্দ্র আবহাওয়া।", "ছত্রাকনাশক স্প্রে এবং রোগমুক্ত জাত ব্যবহার করুন।"},
	{"টমেটো ইয়েলো লিফ কার্ল ভাইরাস", "সাদা মাছি দ্বারা ভাইরাস ছড়ায়।", "সাদা মাছি নিয়ন্ত্রণ করুন এবং আক্রান্ত গাছ সরান।"},
	{"টমেটো মোজাইক ভাইরাস", "ভাইরাস দ্বারা সংক্রমণ।", "রোগমুক্ত বীজ ব্যবহার করুন এবং গাছ ও পোকা নিয়ন্ত্রণ করুন।"},
	{"টমেটো___সুস্থ (গাছটি সুস্থ! 🌱)", "", "গাছকে সুস্থ রাখতে নিয়মিত পানি আলো ও সার দেওয়া উচিত।"},
}
