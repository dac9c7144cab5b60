package domain

import "strings"

// prefectures lists every prefecture with its Yahoo! weather area code.
// Hokkaido is split upstream; "1b" is the Ishikari/Sapporo area.
var prefectures = []struct {
	name string
	code string
}{
	{"北海道", "1b"}, {"青森県", "2"}, {"岩手県", "3"}, {"宮城県", "4"},
	{"秋田県", "5"}, {"山形県", "6"}, {"福島県", "7"}, {"茨城県", "8"},
	{"栃木県", "9"}, {"群馬県", "10"}, {"埼玉県", "11"}, {"千葉県", "12"},
	{"東京都", "13"}, {"神奈川県", "14"}, {"新潟県", "15"}, {"富山県", "16"},
	{"石川県", "17"}, {"福井県", "18"}, {"山梨県", "19"}, {"長野県", "20"},
	{"岐阜県", "21"}, {"静岡県", "22"}, {"愛知県", "23"}, {"三重県", "24"},
	{"滋賀県", "25"}, {"京都府", "26"}, {"大阪府", "27"}, {"兵庫県", "28"},
	{"奈良県", "29"}, {"和歌山県", "30"}, {"鳥取県", "31"}, {"島根県", "32"},
	{"岡山県", "33"}, {"広島県", "34"}, {"山口県", "35"}, {"徳島県", "36"},
	{"香川県", "37"}, {"愛媛県", "38"}, {"高知県", "39"}, {"福岡県", "40"},
	{"佐賀県", "41"}, {"長崎県", "42"}, {"熊本県", "43"}, {"大分県", "44"},
	{"宮崎県", "45"}, {"鹿児島県", "46"}, {"沖縄県", "47"},
}

// PrefectureCode returns the weather area code for an exact prefecture name.
func PrefectureCode(name string) (string, bool) {
	for _, p := range prefectures {
		if p.name == name {
			return p.code, true
		}
	}
	return "", false
}

// PrefectureOf finds the prefecture for a location: admin1 when it is a
// prefecture name, otherwise a prefecture prefix of the name (GSI titles
// start with one).
func PrefectureOf(loc ResolvedLocation) (string, bool) {
	if _, ok := PrefectureCode(loc.Admin1); ok {
		return loc.Admin1, true
	}
	for _, p := range prefectures {
		if strings.HasPrefix(loc.Name, p.name) {
			return p.name, true
		}
	}
	return "", false
}

// AreaCode accepts either a prefecture name or an area code and returns the
// area code.
func AreaCode(prefectureOrCode string) (string, bool) {
	if code, ok := PrefectureCode(prefectureOrCode); ok {
		return code, true
	}
	for _, p := range prefectures {
		if p.code == prefectureOrCode {
			return p.code, true
		}
	}
	return "", false
}
