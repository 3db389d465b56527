package models

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestOrderMonthIDs(t *testing.T) {
	m1 := primitive.NewObjectID()
	m2 := primitive.NewObjectID()
	zero := primitive.ObjectID{}

	tests := []struct {
		name  string
		items []OrderItem
		want  []primitive.ObjectID
	}{
		{name: "empty order"},
		{
			name:  "items without months",
			items: []OrderItem{{Title: "a"}, {Title: "b"}},
		},
		{
			name:  "zero id skipped",
			items: []OrderItem{{MonthID: &zero}},
		},
		{
			name:  "duplicates collapse",
			items: []OrderItem{{MonthID: &m1}, {MonthID: &m1}, {MonthID: &m2}},
			want:  []primitive.ObjectID{m1, m2},
		},
		{
			name:  "mixed",
			items: []OrderItem{{MonthID: &m2}, {Title: "free"}, {MonthID: &m1}},
			want:  []primitive.ObjectID{m2, m1},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Order{Items: tt.items}.MonthIDs()
			if len(got) != len(tt.want) {
				t.Fatalf("MonthIDs() = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("MonthIDs()[%d] = %s, want %s", i, got[i].Hex(), tt.want[i].Hex())
				}
			}
		})
	}
}
