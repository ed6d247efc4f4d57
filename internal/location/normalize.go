package location

import (
	"strings"

	"golang.org/x/text/width"
)

// Wards lists Tokyo's 23 special wards in their official order.
var Wards = []string{
	"千代田区", "中央区", "港区", "新宿区", "文京区", "台東区", "墨田区", "江東区",
	"品川区", "目黒区", "大田区", "世田谷区", "渋谷区", "中野区", "杉並区", "豊島区",
	"北区", "荒川区", "板橋区", "練馬区", "足立区", "葛飾区", "江戸川区",
}

const prefecture = "東京都"

var wardSet = func() map[string]struct{} {
	m := make(map[string]struct{}, len(Wards))
	for _, w := range Wards {
		m[w] = struct{}{}
	}
	return m
}()

// Normalize folds full-width ASCII (including （） parentheses and digits) to
// half-width, half-width katakana to full-width, drops whitespace and a
// leading prefecture name.
func Normalize(s string) string {
	s = width.Fold.String(s)
	s = strings.Join(strings.Fields(s), "")
	return strings.TrimPrefix(s, prefecture)
}

// NormalizeWard normalizes a ward name and restores a dropped "区" suffix for
// the 23 wards, so "新宿" and "新宿区" are the same ward.
func NormalizeWard(ward string) string {
	w := Normalize(ward)
	if w == "" {
		return ""
	}
	if _, ok := wardSet[w]; ok {
		return w
	}
	if _, ok := wardSet[w+"区"]; ok {
		return w + "区"
	}
	return w
}

// WardOf returns the ward prefix of a location key, or "" if the key does not
// start with one of the 23 wards.
func WardOf(key string) string {
	n := Normalize(key)
	for _, w := range Wards {
		if strings.HasPrefix(n, w) {
			return w
		}
	}
	return ""
}
