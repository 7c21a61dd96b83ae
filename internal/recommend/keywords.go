// Shortlist - Budget-Aware Catalog Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shortlist

package recommend

// KeywordTable maps a category id to the catalog keywords searched for it.
// Entries hold either one keyword or at least three.
type KeywordTable map[string][]string

// DefaultKeywords is the built-in category table.
var DefaultKeywords = KeywordTable{
	"meat":       {"牛肉", "豚肉", "鶏肉", "ハンバーグ"},
	"seafood":    {"カニ", "えび", "いくら", "うなぎ"},
	"rice":       {"米"},
	"fruit":      {"シャインマスカット", "いちご", "メロン", "みかん"},
	"vegetables": {"野菜セット"},
	"sweets":     {"チョコレート", "アイス", "和菓子"},
	"alcohol":    {"日本酒", "ビール", "ワイン"},
	"noodles":    {"うどん", "そば", "ラーメン"},
	"dairy":      {"チーズ"},
	"eggs":       {"卵"},
	"processed":  {"ソーセージ", "ハム", "餃子"},
	"daily":      {"トイレットペーパー", "洗剤", "ティッシュ"},
	"beverages":  {"ミネラルウォーター", "お茶", "コーヒー"},
	"travel":     {"旅行券"},
}

// Terms returns the strings matched against item names for category id:
// the id itself followed by its keywords.
func (t KeywordTable) Terms(id string) []string {
	return append([]string{id}, t[id]...)
}
