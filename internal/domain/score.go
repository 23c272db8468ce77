package domain

import "sort"

// Leaderboard entry. Names are unique within a leaderboard.
type Score struct {
	Name  string `json:"name"`
	Score int    `json:"score"`
}

// Scores ordered by descending score; equal scores keep insertion order.
type Leaderboard []Score

// Return a sorted copy; the receiver is left untouched.
func (l Leaderboard) Sorted() Leaderboard {
	out := make(Leaderboard, len(l))
	copy(out, l)
	out.sort()
	return out
}

func (l Leaderboard) sort() {
	sort.SliceStable(l, func(i, j int) bool { return l[i].Score > l[j].Score })
}

// Upsert records score for name. An existing entry is only ever raised,
// never lowered. The board is resorted afterwards.
// It returns the player's 1-based place and whether anything changed.
func (l *Leaderboard) Upsert(name string, score int) (place int, changed bool) {
	found := false
	for i := range *l {
		if (*l)[i].Name != name {
			continue
		}
		found = true
		if score > (*l)[i].Score {
			(*l)[i].Score = score
			changed = true
		}
		break
	}
	if !found {
		*l = append(*l, Score{Name: name, Score: score})
		changed = true
	}

	l.sort()
	return l.Place(name), changed
}

// 1-based position of name, or 0 when absent.
func (l Leaderboard) Place(name string) int {
	for i, s := range l {
		if s.Name == name {
			return i + 1
		}
	}
	return 0
}
