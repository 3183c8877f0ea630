package entity

import (
	"sort"
	"time"
)

// OnLocalDay keeps the rendez-vous whose date falls on day's calendar date in loc.
func OnLocalDay(rdvs []RendezVous, day time.Time, loc *time.Location) []RendezVous {
	y, m, d := day.In(loc).Date()
	result := make([]RendezVous, 0, len(rdvs))
	for _, rdv := range rdvs {
		at, err := ParseDay(rdv.Date, loc)
		if err != nil {
			continue
		}
		ry, rm, rd := at.Date()
		if ry == y && rm == m && rd == d {
			result = append(result, rdv)
		}
	}
	return result
}

// NextAppointment returns the soonest non-terminal rendez-vous strictly after now.
// Equal timestamps are ordered by ID.
func NextAppointment(rdvs []RendezVous, now time.Time, loc *time.Location) *RendezVous {
	upcoming, _ := SplitHistory(rdvs, now, loc)
	if len(upcoming) == 0 {
		return nil
	}
	next := upcoming[0]
	return &next
}

// SplitHistory partitions rdvs into upcoming (non-terminal and future, soonest first) and
// past (terminal or not after now, latest first). Classification compares the wall clock only.
func SplitHistory(rdvs []RendezVous, now time.Time, loc *time.Location) (upcoming, past []RendezVous) {
	type stamped struct {
		rdv RendezVous
		at  time.Time
	}
	var up, old []stamped

	for _, rdv := range rdvs {
		at, err := rdv.ScheduledAt(loc)
		if err != nil {
			old = append(old, stamped{rdv: rdv})
			continue
		}
		if !rdv.IsTerminal() && at.After(now) {
			up = append(up, stamped{rdv: rdv, at: at})
		} else {
			old = append(old, stamped{rdv: rdv, at: at})
		}
	}

	sort.SliceStable(up, func(i, j int) bool {
		if up[i].at.Equal(up[j].at) {
			return up[i].rdv.ID < up[j].rdv.ID
		}
		return up[i].at.Before(up[j].at)
	})
	sort.SliceStable(old, func(i, j int) bool {
		if old[i].at.Equal(old[j].at) {
			return old[i].rdv.ID < old[j].rdv.ID
		}
		return old[i].at.After(old[j].at)
	})

	upcoming = make([]RendezVous, len(up))
	for i, s := range up {
		upcoming[i] = s.rdv
	}
	past = make([]RendezVous, len(old))
	for i, s := range old {
		past[i] = s.rdv
	}
	return upcoming, past
}

// CountByEtat tallies rdvs per state.
func CountByEtat(rdvs []RendezVous) map[Etat]int {
	counts := make(map[Etat]int, 4)
	for _, rdv := range rdvs {
		counts[rdv.Etat]++
	}
	return counts
}

// SortBySchedule orders rdvs in place, earliest first. Unparseable dates go last.
func SortBySchedule(rdvs []RendezVous, loc *time.Location) {
	at := make(map[string]time.Time, len(rdvs))
	for _, rdv := range rdvs {
		if t, err := rdv.ScheduledAt(loc); err == nil {
			at[rdv.ID] = t
		}
	}
	sort.SliceStable(rdvs, func(i, j int) bool {
		ti, okI := at[rdvs[i].ID]
		tj, okJ := at[rdvs[j].ID]
		switch {
		case okI != okJ:
			return okI
		case !okI || ti.Equal(tj):
			return rdvs[i].ID < rdvs[j].ID
		}
		return ti.Before(tj)
	})
}
