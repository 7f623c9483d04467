package router

import (
	"encoding/json"
	"fmt"
	"html"
	"strings"

	"github.com/aatumaykin/cqbot/internal/constants"
)

const (
	cardPrefix = "[CQ:json,data="
	cardSuffix = "]"
)

// ExtractCard summarizes a shared-card message as its title and link.
// The payload is CQ-escaped JSON; both the document share
// (meta.detail_1.desc / qqdocurl) and the news share
// (meta.news.title / jumpUrl) shapes are recognized.
func ExtractCard(text string) (string, bool) {
	if !strings.HasPrefix(text, cardPrefix) || !strings.HasSuffix(text, cardSuffix) ||
		len(text) < len(cardPrefix)+len(cardSuffix) {
		return "", false
	}

	payload := html.UnescapeString(text[len(cardPrefix) : len(text)-len(cardSuffix)])

	var doc map[string]any
	if err := json.Unmarshal([]byte(payload), &doc); err != nil {
		return "", false
	}

	if title, url, ok := cardFields(doc, "detail_1", "desc", "qqdocurl"); ok {
		return fmt.Sprintf(constants.MsgCardFormat, title, url), true
	}
	if title, url, ok := cardFields(doc, "news", "title", "jumpUrl"); ok {
		return fmt.Sprintf(constants.MsgCardFormat, title, url), true
	}
	return "", false
}

func cardFields(doc map[string]any, section, titleKey, urlKey string) (title, url string, ok bool) {
	meta, ok := doc["meta"].(map[string]any)
	if !ok {
		return "", "", false
	}
	body, ok := meta[section].(map[string]any)
	if !ok {
		return "", "", false
	}
	title, titleOK := body[titleKey].(string)
	url, urlOK := body[urlKey].(string)
	if !titleOK || !urlOK {
		return "", "", false
	}
	return title, url, true
}
