package trainingset

import (
	"sort"
	"strings"

	"github.com/samber/lo"
)

// Column names consumed from the source schema. Other columns are ignored.
const (
	SenderField  = "Parsed From"
	SubjectField = "Parsed Subject"
	BodyField    = "Parsed Body"
)

// DistinctSenders returns the sorted set of distinct trimmed sender values.
// Rows with an empty or missing sender are excluded.
func DistinctSenders(rows []Row) []string {
	senders := lo.FilterMap(rows, func(row Row, _ int) (string, bool) {
		sender := strings.TrimSpace(row[SenderField])
		return sender, sender != ""
	})
	senders = lo.Uniq(senders)
	sort.Strings(senders)
	return senders
}

// SenderGroup collects every full sender value sharing a first name, e.g.
// "Alice Smith" and "Alice Jones" under key "Alice".
type SenderGroup struct {
	Key     string   `json:"key"`
	Members []string `json:"members"`
}

// Display returns the selectable label for the group. A group with several
// members collapses into one combined choice; a singleton is shown as-is.
func (g SenderGroup) Display() string {
	if len(g.Members) > 1 {
		return g.Key + " (All variations)"
	}
	return g.Members[0]
}

// GroupByFirstToken partitions senders by their first whitespace-delimited
// token. Groups come back sorted by key, members in input order.
func GroupByFirstToken(senders []string) []SenderGroup {
	grouped := lo.GroupBy(senders, firstToken)

	keys := lo.Keys(grouped)
	sort.Strings(keys)

	groups := make([]SenderGroup, 0, len(keys))
	for _, key := range keys {
		groups = append(groups, SenderGroup{Key: key, Members: grouped[key]})
	}
	return groups
}

// ExpandSelection maps chosen display labels back to the full sender values
// they stand for. Choices that match no group label pass through unchanged,
// so callers may mix labels and raw sender values.
func ExpandSelection(groups []SenderGroup, selected []string) []string {
	byDisplay := lo.KeyBy(groups, SenderGroup.Display)

	var senders []string
	for _, choice := range selected {
		if group, ok := byDisplay[choice]; ok {
			senders = append(senders, group.Members...)
		} else {
			senders = append(senders, choice)
		}
	}
	return senders
}

func firstToken(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}
