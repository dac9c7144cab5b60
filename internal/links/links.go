// Package links builds deep links into third-party weather sites for a
// resolved location.
package links

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/couchcryptid/weather-lookup/internal/domain"
)

// ProviderLink is one outbound link shown for a location.
type ProviderLink struct {
	Name        string `json:"name"`
	URL         string `json:"url"`
	Description string `json:"description"`
}

// Provider names.
const (
	YahooSearch = "Yahoo! JAPAN (検索結果)"
	Weathernews = "ウェザーニュース (ピンポイント)"
	Google      = "Google 検索"
	Tenki       = "tenki.jp (検索)"
	YahooCity   = "Yahoo!天気"
)

// ProviderLinks returns the fixed provider links for loc, in display order.
func ProviderLinks(loc domain.ResolvedLocation) []ProviderLink {
	weatherQuery := escape(loc.Name + " 天気")
	tenkiURL, tenkiDesc := tenkiLink(loc)

	return []ProviderLink{
		{
			Name:        YahooSearch,
			URL:         "https://search.yahoo.co.jp/search?p=" + weatherQuery,
			Description: "Yahoo! JAPANで「地名 + 天気」を検索した結果を表示します。",
		},
		{
			Name:        Weathernews,
			URL:         "https://weathernews.jp/onebox/" + formatCoord(loc.Latitude) + "/" + formatCoord(loc.Longitude) + "/",
			Description: "緯度経度でピンポイント表示します。",
		},
		{
			Name:        Google,
			URL:         "https://www.google.com/search?q=" + weatherQuery,
			Description: "Googleで天気を検索します。",
		},
		{
			Name:        Tenki,
			URL:         tenkiURL,
			Description: tenkiDesc,
		},
	}
}

// tenkiLink prefers the street address, then the postal code, then the name.
func tenkiLink(loc domain.ResolvedLocation) (link, description string) {
	const base = "https://tenki.jp/search/?keyword="
	switch {
	case loc.Address != "":
		return base + escape(loc.Address), "詳細住所「" + loc.Address + "」で検索します。"
	case loc.PostalCode != "":
		return base + escape(loc.PostalCode), "郵便番号「" + loc.PostalCode + "」で検索します。"
	default:
		return base + escape(loc.Name), "地域名で検索します。"
	}
}

// escape percent-encodes s the way browsers encode a URI component.
func escape(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

func formatCoord(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
