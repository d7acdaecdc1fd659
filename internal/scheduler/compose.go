package scheduler

import (
	"sort"
	"time"

	"github.com/YiniRuohong/wordflow/internal/store"
)

// composeSets partitions one wordbook's scheduler snapshot into the three
// disjoint sets §4.5 defines, each already sorted the way that section
// requires. Due and Rolling are built first since New is defined by
// exclusion from them, not by any property of its own rows.
func composeSets(rows []store.SchedulerRow, now time.Time, includeRolling bool) (due, rolling, fresh []QueueCard) {
	today := truncateToDay(now)

	inDue := make(map[int]bool, len(rows))
	for _, r := range rows {
		if r.Reps > 0 && !r.Due.After(now) {
			due = append(due, QueueCard{
				CardID: r.CardID, WordID: r.WordID, Lesson: r.Lesson,
				Due: r.Due, Reps: r.Reps, Lapses: r.Lapses, Source: SourceDue,
			})
			inDue[r.CardID] = true
		}
	}
	sort.Slice(due, func(i, j int) bool {
		if !due[i].Due.Equal(due[j].Due) {
			return due[i].Due.Before(due[j].Due)
		}
		if due[i].Lapses != due[j].Lapses {
			return due[i].Lapses > due[j].Lapses
		}
		return due[i].CardID < due[j].CardID
	})

	type rollingRow struct {
		card QueueCard
		d    int
	}
	var rollingRows []rollingRow
	inRolling := make(map[int]bool, len(rows))
	if includeRolling {
		for _, r := range rows {
			if inDue[r.CardID] {
				continue
			}
			seenDay := truncateToDay(r.FirstSeenAt)
			d := int(today.Sub(seenDay).Hours() / 24)
			if !isRollingOffset(d) {
				continue
			}
			rollingRows = append(rollingRows, rollingRow{
				card: QueueCard{
					CardID: r.CardID, WordID: r.WordID, Lesson: r.Lesson,
					Due: r.Due, Reps: r.Reps, Lapses: r.Lapses, Source: SourceRolling,
				},
				d: d,
			})
			inRolling[r.CardID] = true
		}
	}
	sort.Slice(rollingRows, func(i, j int) bool {
		if rollingRows[i].d != rollingRows[j].d {
			return rollingRows[i].d < rollingRows[j].d
		}
		return rollingRows[i].card.CardID < rollingRows[j].card.CardID
	})
	rolling = make([]QueueCard, len(rollingRows))
	for i, rr := range rollingRows {
		rolling[i] = rr.card
	}

	for _, r := range rows {
		if inDue[r.CardID] || inRolling[r.CardID] {
			continue
		}
		if r.Reps > 0 {
			continue
		}
		fresh = append(fresh, QueueCard{
			CardID: r.CardID, WordID: r.WordID, Lesson: r.Lesson,
			Due: r.Due, Reps: r.Reps, Lapses: r.Lapses, Source: SourceNew,
		})
	}
	sort.Slice(fresh, func(i, j int) bool {
		if fresh[i].Lesson != fresh[j].Lesson {
			return naturalLess(fresh[i].Lesson, fresh[j].Lesson)
		}
		return fresh[i].WordID < fresh[j].WordID
	})

	return due, rolling, fresh
}

func truncateToDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func isRollingOffset(d int) bool {
	for _, offset := range rollingOffsets {
		if d == offset {
			return true
		}
	}
	return false
}
