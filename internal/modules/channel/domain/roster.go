package domain

// DefaultGroupKeyword is the keyword shared by every roster channel's titles
const DefaultGroupKeyword = "あおぎり高校"

// DefaultRoster returns the built-in roster used when configuration does not
// provide one
func DefaultRoster() []Channel {
	return []Channel{
		{ID: "UCt7_srJeiw55kTcK7M9ID6g", Name: "音霊 魂子", Color: "#9575CD"},
		{ID: "UC7wZb5INldbGweowOhBIs8Q", Name: "石狩 あかり", Color: "#FF8A65"},
		{ID: "UCs-lYkwb-NYKE9_ssTRDK3Q", Name: "山黒 音玄", Color: "#9E9E9E"},
		{ID: "UCXXnWssOLdB2jg-4CznteAA", Name: "栗駒 こまる", Color: "#FFF176"},
		{ID: "UCyY6YeINiwQoA-FnmdQCkug", Name: "千代浦 蝶美", Color: "#F06292"},
		{ID: "UCFvEuP2EDkvrgJpHI6-pyNw", Name: "我部 りえる", Color: "#FFCDD2"},
		{ID: "UCAHXqn4nAd2j3LRu1Qyi_JA", Name: "エトラ", Color: "#FFCC80"},
		{ID: "UCmiYJycZXBGc4s_zjIRUHhQ", Name: "春雨 麗女", Color: "#64B5F6"},
		{ID: "UC1sBUU-y9FlHNukwsrR4bmA", Name: "ぷわぷわぽぷら", Color: "#FFD54F"},
		{ID: "UCIwHOJn_3QjBTwQ_gNj7WRA", Name: "萌実", Color: "#AED581"},
		{ID: "UCxy3KNlLQiN64tikKipnQNg", Name: "月赴 ゐぶき", Color: "#8D6E63"},
		{ID: "UCdi5pj0MDQ-3LFNUFIFmD8w", Name: "うる虎 がーる", Color: "#FFB74D"},
		{ID: "UCXXlhNCp1EPbDQ2pzmmy9aw", Name: "八十科 むじな", Color: "#90A4AE"},
		{ID: "UCPLeqi7rIqS9uY4_TrSUOMg", Name: "あおぎり高校 公式", Color: "#29B6F6"},
	}
}
