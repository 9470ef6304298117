package fuel

import (
	"testing"

	"github.com/lunemec/fuel-accountant/pkg/domain/fuel/aggregate"
	"github.com/lunemec/fuel-accountant/pkg/domain/fuel/entity"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		kind entity.Kind
		want entity.Operation
	}{
		{"purchase", entity.Purchase},
		{"sale", entity.Sale},
		{"drain", entity.Drain},
		{"base_to_bunker", entity.BaseToBunker},
		{"bunker_to_base", entity.BunkerToBase},
		{" Sale ", entity.Sale},
		{"PURCHASE", entity.Purchase},
		{"repair", entity.Unrecognized},
		{"salary", entity.Unrecognized},
		{"expense", entity.Unrecognized},
		{"", entity.Unrecognized},
	}
	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			got := Classify(&aggregate.Transaction{Kind: tt.kind})
			if got != tt.want {
				t.Fatalf("Classify(%q) = %s, want %s", tt.kind, got, tt.want)
			}
		})
	}
}

func TestClassifyNil(t *testing.T) {
	if got := Classify(nil); got != entity.Unrecognized {
		t.Fatalf("Classify(nil) = %s, want unrecognized", got)
	}
}
