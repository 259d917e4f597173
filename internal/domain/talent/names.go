package talent

import "github.com/okian/instock/internal/domain/model"

// defaultNames maps the Japanese names used in Talent_ tags to the English
// spelling the storefront uses as vendor.
var defaultNames = model.NameMap{ //nolint:gochecknoglobals // static lookup table
	// Gen 0
	"ときのそら":  "Tokino Sora",
	"ロボ子さん":  "Roboco",
	"さくらみこ":  "Sakura Miko",
	"星街すいせい": "Hoshimachi Suisei",
	// Gen 1
	"白上フブキ":      "Shirakami Fubuki",
	"夏色まつり":      "Natsuiro Matsuri",
	"アキ・ローゼンタール": "Aki Rosenthal",
	"アキロゼ":       "Aki Rosenthal",
	"赤井はあと":      "Akai Haato",
	// Gen 2
	"百鬼あやめ": "Nakiri Ayame",
	"癒月ちょこ": "Yuzuki Choco",
	"大空スバル": "Oozora Subaru",
	// Gamers
	"大神ミオ":  "Ookami Mio",
	"猫又おかゆ": "Nekomata Okayu",
	"戌神ころね": "Inugami Korone",
	// Gen 3
	"兎田ぺこら":  "Usada Pekora",
	"不知火フレア": "Shiranui Flare",
	"白銀ノエル":  "Shirogane Noel",
	"宝鐘マリン":  "Houshou Marine",
	// Gen 4
	"角巻わため": "Tsunomaki Watame",
	"常闇トワ":  "Tokoyami Towa",
	"姫森ルーナ": "Himemori Luna",
	// Gen 5
	"雪花ラミィ": "Yukihana Lamy",
	"桃鈴ねね":  "Momosuzu Nene",
	"獅白ぼたん": "Shishiro Botan",
	"尾丸ポルカ": "Omaru Polka",
	// holoX
	"ラプラス・ダークネス": "La+ Darknesss",
	"鷹嶺ルイ":       "Takane Lui",
	"博衣こより":      "Hakui Koyori",
	"沙花叉クロヱ":     "Sakamata Chloe",
	"風真いろは":      "Kazama Iroha",
	// ID
	"アユンダ・リス":        "Ayunda Risu",
	"ムーナ・ホシノヴァ":      "Moona Hoshinova",
	"アイラニ・イオフィフティーン": "Airani Iofifteen",
	"クレイジー・オリー":      "Kureiji Ollie",
	"アーニャ・メルフィッサ":    "Anya Melfissa",
	"パヴォリア・レイネ":      "Pavolia Reine",
	"ベスティア・ゼータ":      "Vestia Zeta",
	"カエラ・コヴァルスキア":    "Kaela Kovalskia",
	"こぼ・かなえる":        "Kobo Kanaeru",
	// EN
	"森カリオペ":              "Mori Calliope",
	"小鳥遊キアラ":             "Takanashi Kiara",
	"一伊那尓栖":              "Ninomae Ina'nis",
	"ワトソン・アメリア":          "Watson Amelia",
	"がうる・ぐら":             "Gawr Gura",
	"オーロ・クロニー":           "Ouro Kronii",
	"ハコス・ベールズ":           "Hakos Baelz",
	"シオリ・ノヴェラ":           "Shiori Novella",
	"古石ビジュー":             "Koseki Bijou",
	"ネリッサ・レイヴンクロフト":      "Nerissa Ravencroft",
	"フワワ・アビスガード":         "Fuwawa Abyssgard",
	"モココ・アビスガード":         "Mococo Abyssgard",
	"エリザベス・ローズ・ブラッドフレイム": "Elizabeth Rose Bloodflame",
	"ジジ・ムリン":             "Gigi Murin",
	"セシリア・イマーグリーン":       "Cecilia Immergreen",
	"ラオーラ・パンテーラ":         "Raora Panthera",
	// ReGLOSS
	"音乃瀬奏":    "Otonose Kanade",
	"一条莉々華":   "Ichijou Ririka",
	"儒烏風亭らでん": "Juufuutei Raden",
	"轟はじめ":    "Todoroki Hajime",
	// FLOW GLOW
	"響咲リオナ":    "Isaki Riona",
	"虎金妃笑虎":    "Koganei Niko",
	"水宮枢":      "Mizumiya Su",
	"輪堂千速":     "Rindo Chihaya",
	"綺々羅々ヴィヴィ": "Kikirara Vivi",
	// HOLOSTARS
	"花咲みやび":   "Hanasaki Miyabi",
	"奏手イヅル":   "Kanade Izuru",
	"アルランディス": "Arurandeisu",
	"リッカロイド":  "Rikkaroid",
	"アステル・レダ": "Astel Leda",
	"岸堂テンマ":   "Kishido Temma",
	"夕刻ロベル":   "Yukoku Roberu",
	"影山シエン":   "Kageyama Shien",
	"荒咬オウガ":   "Aragami Oga",
	"夜十神封魔":   "Yatogami Fuma",
	"羽継烏有":    "Utsugi Uyu",
	"矢戸乃上フウマ": "Yatogami Fuma",
	"宇佐美うゆ":   "Utsugi Uyu",
	"水無世燐央":   "Minase Rio",
	// HOLOSTARS EN
	"レギス・アルテア":          "Regis Altare",
	"アクセル・シリオス":         "Axel Syrios",
	"ガヴィス・ベッテル":         "Gavis Bettel",
	"マキナ・X・フレオン":        "Machina X Flayon",
	"飯生ハッカ":             "Banzoin Hakka",
	"斑目ハッカ":             "Banzoin Hakka",
	"定利シュンリ":            "Josuiji Shinri",
	"ジュラルド・ティー・レクスフォード": "Jurard T Rexford",
	"ゴールドブレット":          "Goldbullet",
	"オクタビオ":             "Octavio",
	"クリムゾン・ルーズ":         "Crimzon Ruze",
	// Alumni
	"湊あくあ":     "Minato Aqua",
	"紫咲シオン":    "Murasaki Shion",
	"天音かなた":    "Amane Kanata",
	"桐生ココ":     "Kiryu Coco",
	"セレス・ファウナ": "Ceres Fauna",
	"七詩ムメイ":    "Nanashi Mumei",
	"火威青":      "Hiodoshi Ao",
	"春先のどか":    "Harusaki Nodoka",
	"九十九佐命":    "Tsukumo Sana",
	"夜空メル":     "Yozora Mel",
	"ヨゾラ・メル":   "Yozora Mel",
}

// DefaultNameMap returns a copy of the built-in localized name table.
func DefaultNameMap() model.NameMap {
	out := make(model.NameMap, len(defaultNames))
	for k, v := range defaultNames {
		out[k] = v
	}
	return out
}
