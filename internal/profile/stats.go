package profile

import (
	"context"
	"sort"
	"time"

	"github.com/zenify/companion/internal/model"
)

// averageWindow is how far back AverageMood looks.
const averageWindow = 14 * 24 * time.Hour

// NoAverage is reported when there are no mood entries in the window.
const NoAverage = "N/A"

// Stats summarizes a profile for the profile overview.
type Stats struct {
	JournalCount      int
	ConversationCount int
	MoodCount         int
	Streak            int
	AverageMood       string
}

// DayMood is the latest mood recorded on a calendar day.
type DayMood struct {
	Day  time.Time
	Mood model.Mood
}

// Stats computes the profile overview. Calendar days are taken in now's location.
func (s *Store) Stats(ctx context.Context, now time.Time) (*Stats, error) {
	p, err := s.GetProfile(ctx)
	if err != nil {
		return nil, err
	}
	return &Stats{
		JournalCount:      len(p.Journals),
		ConversationCount: len(p.Conversations),
		MoodCount:         len(p.Mood.History),
		Streak:            Streak(p.Mood.History, now),
		AverageMood:       AverageMood(p.Mood.History, now),
	}, nil
}

// MoodByDay returns the latest mood of each of the last days calendar days
// ending with now's day, oldest first. Days without an entry are omitted.
func (s *Store) MoodByDay(ctx context.Context, now time.Time, days int) ([]DayMood, error) {
	entries, err := s.GetMoodEntries(ctx)
	if err != nil {
		return nil, err
	}
	if days <= 0 {
		return []DayMood{}, nil
	}

	loc := now.Location()
	first := startOfDay(now).AddDate(0, 0, -(days - 1))
	latest := make(map[time.Time]model.MoodEntry)
	for _, e := range entries {
		day := startOfDay(e.Date.In(loc))
		if day.Before(first) || day.After(startOfDay(now)) {
			continue
		}
		if prev, ok := latest[day]; !ok || !e.Date.Before(prev.Date) {
			latest[day] = e
		}
	}

	out := make([]DayMood, 0, len(latest))
	for day, e := range latest {
		out = append(out, DayMood{Day: day, Mood: e.Mood})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Day.Before(out[j].Day) })
	return out, nil
}

// TodayMood returns the latest mood entry on now's calendar day, or nil.
func (s *Store) TodayMood(ctx context.Context, now time.Time) (*model.MoodEntry, error) {
	entries, err := s.GetMoodEntries(ctx)
	if err != nil {
		return nil, err
	}
	today := startOfDay(now)
	var found *model.MoodEntry
	for i := range entries {
		if !startOfDay(entries[i].Date.In(now.Location())).Equal(today) {
			continue
		}
		if found == nil || !entries[i].Date.Before(found.Date) {
			e := entries[i]
			found = &e
		}
	}
	return found, nil
}

// Streak counts consecutive calendar days with at least one mood entry. The run
// must end today or yesterday; otherwise the streak is 0. Several entries on
// the same day count once.
func Streak(entries []model.MoodEntry, now time.Time) int {
	if len(entries) == 0 {
		return 0
	}
	loc := now.Location()
	days := make(map[time.Time]struct{}, len(entries))
	for _, e := range entries {
		days[startOfDay(e.Date.In(loc))] = struct{}{}
	}

	day := startOfDay(now)
	if _, ok := days[day]; !ok {
		day = day.AddDate(0, 0, -1)
		if _, ok := days[day]; !ok {
			return 0
		}
	}

	streak := 0
	for {
		if _, ok := days[day]; !ok {
			return streak
		}
		streak++
		day = day.AddDate(0, 0, -1)
	}
}

// AverageMood labels the mean score of the entries of the last 14 days:
// Great from 4.5, Good from 3.5, Neutral from 2.5, Bad from 1.5, else Awful.
// It returns NoAverage when the window is empty.
func AverageMood(entries []model.MoodEntry, now time.Time) string {
	since := now.Add(-averageWindow)
	sum, n := 0, 0
	for _, e := range entries {
		if e.Date.Before(since) {
			continue
		}
		sum += e.Mood.Score()
		n++
	}
	if n == 0 {
		return NoAverage
	}

	avg := float64(sum) / float64(n)
	switch {
	case avg >= 4.5:
		return model.MoodGreat.Label()
	case avg >= 3.5:
		return model.MoodGood.Label()
	case avg >= 2.5:
		return model.MoodNeutral.Label()
	case avg >= 1.5:
		return model.MoodBad.Label()
	default:
		return model.MoodAwful.Label()
	}
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
