package errors

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Supported lists the languages error messages are available in. The first
// entry is the fallback.
var Supported = []language.Tag{
	language.English,
	language.Japanese,
}

var matcher = language.NewMatcher(Supported)

// MatchLanguage returns the supported language closest to tag.
func MatchLanguage(tag language.Tag) language.Tag {
	_, idx, _ := matcher.Match(tag)
	return Supported[idx]
}

// ParseLanguage parses a BCP 47 tag such as "ja" or "en-GB", falling back to
// English for anything unrecognised.
func ParseLanguage(s string) language.Tag {
	if s == "" {
		return language.English
	}
	tag, err := language.Parse(s)
	if err != nil {
		return language.English
	}
	return MatchLanguage(tag)
}

var japanese = map[string]string{
	"PARSE-0001":  "{{.Expected}} が必要ですが '{{.Got}}' がありました",
	"PARSE-0002":  "予期しないトークン '{{.Token}}'",
	"PARSE-0003":  "文字列が閉じられていません",
	"PARSE-0004":  "不正な数値リテラル: {{.Literal}}",
	"PARSE-0005":  "不正な単位指定",
	"PARSE-0006":  "不正な文字 '{{.Char}}'",
	"PARSE-0007":  "ブロックコメントが閉じられていません",
	"NAME-0001":   "名前 '{{.Name}}' は定義されていません",
	"TYPE-0001":   "{{.Operator}} は '{{.Left}}' と '{{.Right}}' に対応していません",
	"TYPE-0002":   "{{.Operator}} に None は使えません",
	"TYPE-0003":   "{{.Name}}() の引数は {{.Expected}} 個です ({{.Got}} 個指定されました)",
	"TYPE-0004":   "'{{.Type}}' は呼び出せません",
	"TYPE-0005":   "{{.Target}} には代入できません",
	"TYPE-0006":   "rep には整数かリストが必要ですが '{{.Type}}' がありました",
	"TYPE-0007":   "単項 {{.Operator}} は '{{.Type}}' に対応していません",
	"TYPE-0008":   "'{{.Type}}' の値は単位 {{.Unit}} に変換できません",
	"TYPE-0009":   "繰り返した文字列が上限 {{.Limit}} 文字を超えます",
	"UNIT-0001":   "{{.From}} ({{.FromCategory}}) を {{.To}} ({{.ToCategory}}) に変換できません",
	"UNIT-0002":   "{{.Operator}} の単位が合いません: {{.Left}} ({{.LeftCategory}}) と {{.Right}} ({{.RightCategory}})",
	"UNIT-0003":   "不明な単位 '{{.Unit}}'",
	"UNIT-0004":   "単位 '{{.Unit}}' はオフセットを持つため{{.Where}}使えません",
	"ASSERT-0001": "アサーション失敗: {{.Expression}}",
	"ZERO-0001":   "{{.Operator}}: ゼロ除算です",
	"CTRL-0001":   "ループの外で '{{.Keyword}}' は使えません",
}

// phrases are fragments substituted into templates, keyed by their English
// text.
var phrases = map[string]string{
	"in a denominator":      "分母では",
	"in a compound unit":    "複合単位では",
	"with a complex number": "複素数には",
	"division":              "除算",
	"modulo":                "剰余",
	"dimensionless":         "無次元",
	"unknown":               "不明",
}

// Phrase translates a template fragment into the language closest to tag.
func Phrase(tag language.Tag, s string) string {
	return message.NewPrinter(MatchLanguage(tag)).Sprintf(s)
}

func init() {
	for en, ja := range phrases {
		message.SetString(language.Japanese, en, ja)
	}
	for code, def := range ErrorCatalog {
		message.SetString(language.English, code, def.Template)
	}
	for code, msg := range japanese {
		message.SetString(language.Japanese, code, msg)
	}
}
