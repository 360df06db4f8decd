package serialize

import "strings"

// textEscaper escapes character data outside raw elements.
var textEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

// attrEscaper escapes double-quoted attribute values.
var attrEscaper = strings.NewReplacer("&", "&amp;", `"`, "&quot;")

func escapeText(s string) string { return textEscaper.Replace(s) }

func escapeAttr(s string) string { return attrEscaper.Replace(s) }
