package cycle

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	errs "github.com/outsider987/Patlytics-hotfix/pkg/errors"
)

// DefaultLocale is the locale of Step.LocalizedMessage when none is given.
var DefaultLocale = language.TraditionalChinese

// SupportedLocales lists the locales with a message catalog. Step.Message is
// always English.
var SupportedLocales = []language.Tag{language.English, language.TraditionalChinese}

var localeMatcher = language.NewMatcher(SupportedLocales)

// Catalog keys double as the English text.
const (
	msgStart         = "Start depth-first search from node %s"
	msgEnterNode     = "Enter node %s"
	msgCheckInStack  = "Check whether node %s is on the current path"
	msgCycleFound    = "Node %s is already on the current path: cycle %s"
	msgSkipCycle     = "Skip back-edge %s and continue"
	msgCheckVisited  = "Node %s is not on the path; check whether it was already visited"
	msgSkipVisited   = "Node %s was already proven safe; skip it"
	msgAddToStack    = "Push node %s onto the path"
	msgExplore       = "Explore edge %s -> %s"
	msgBacktrack     = "All successors of node %s explored; pop it from the path"
	msgMarkSafe      = "Mark node %s as safe"
	msgCompleteClean = "Traversal complete: no cycle reachable from node %s"
	msgCompleteSkip  = "Traversal complete: skipped %d back-edge(s)"
)

func init() {
	zh := language.TraditionalChinese
	for key, text := range map[string]string{
		msgStart:         "從節點 %s 開始深度優先搜尋",
		msgEnterNode:     "進入節點 %s",
		msgCheckInStack:  "檢查節點 %s 是否在目前路徑上",
		msgCycleFound:    "節點 %s 已在目前路徑上，發現循環：%s",
		msgSkipCycle:     "略過回邊 %s 並繼續",
		msgCheckVisited:  "節點 %s 不在路徑上，檢查是否已拜訪過",
		msgSkipVisited:   "節點 %s 已確認安全，略過",
		msgAddToStack:    "將節點 %s 加入目前路徑",
		msgExplore:       "探索邊 %s -> %s",
		msgBacktrack:     "節點 %s 的後繼節點皆已探索，從路徑移除",
		msgMarkSafe:      "標記節點 %s 為安全",
		msgCompleteClean: "遍歷完成：從節點 %s 出發沒有循環",
		msgCompleteSkip:  "遍歷完成：共略過 %d 條回邊",
	} {
		if err := message.SetString(zh, key, text); err != nil {
			panic(err)
		}
	}
}

// ParseLocale resolves a BCP 47 tag to the closest supported locale.
// An empty string yields DefaultLocale.
func ParseLocale(s string) (language.Tag, error) {
	if s == "" {
		return DefaultLocale, nil
	}
	tag, err := language.Parse(s)
	if err != nil {
		return language.Und, errs.Wrap(errs.ErrCodeInvalidInput, err, "invalid locale %q", s)
	}
	_, i, _ := localeMatcher.Match(tag)
	return SupportedLocales[i], nil
}

// narrator renders every step message twice: once in English for logs and
// tests, once in the caller's locale for display.
type narrator struct {
	en    *message.Printer
	local *message.Printer
}

func newNarrator(locale language.Tag) narrator {
	return narrator{
		en:    message.NewPrinter(language.English),
		local: message.NewPrinter(locale),
	}
}

func (n narrator) say(key string, args ...any) (string, string) {
	return n.en.Sprintf(key, args...), n.local.Sprintf(key, args...)
}

func formatLoop(loop []string) string {
	return strings.Join(loop, " -> ")
}
