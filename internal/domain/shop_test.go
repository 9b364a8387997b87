package domain

import "testing"

func TestOpeningHoursOverlaps(t *testing.T) {
	tests := []struct {
		name string
		a    OpeningHours
		b    OpeningHours
		want bool
	}{
		{
			name: "different days never overlap",
			a:    OpeningHours{Day: 1, OpenAt: "09:00", CloseAt: "18:00"},
			b:    OpeningHours{Day: 2, OpenAt: "09:00", CloseAt: "18:00"},
			want: false,
		},
		{
			name: "identical slots on the same day overlap",
			a:    OpeningHours{Day: 1, OpenAt: "09:00", CloseAt: "18:00"},
			b:    OpeningHours{Day: 1, OpenAt: "09:00", CloseAt: "18:00"},
			want: true,
		},
		{
			name: "partial intersection overlaps",
			a:    OpeningHours{Day: 3, OpenAt: "09:00", CloseAt: "14:00"},
			b:    OpeningHours{Day: 3, OpenAt: "12:00", CloseAt: "20:00"},
			want: true,
		},
		{
			name: "containment overlaps",
			a:    OpeningHours{Day: 3, OpenAt: "08:00", CloseAt: "22:00"},
			b:    OpeningHours{Day: 3, OpenAt: "12:00", CloseAt: "13:00"},
			want: true,
		},
		{
			name: "touching endpoints do not overlap",
			a:    OpeningHours{Day: 5, OpenAt: "09:00", CloseAt: "12:00"},
			b:    OpeningHours{Day: 5, OpenAt: "12:00", CloseAt: "18:00"},
			want: false,
		},
		{
			name: "disjoint slots do not overlap",
			a:    OpeningHours{Day: 5, OpenAt: "09:00", CloseAt: "11:00"},
			b:    OpeningHours{Day: 5, OpenAt: "14:00", CloseAt: "18:00"},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Overlaps(tt.b); got != tt.want {
				t.Errorf("Overlaps() = %v, want %v", got, tt.want)
			}
			// The predicate is symmetric.
			if got := tt.b.Overlaps(tt.a); got != tt.want {
				t.Errorf("reverse Overlaps() = %v, want %v", got, tt.want)
			}
		})
	}
}
