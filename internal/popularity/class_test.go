package popularity

import "testing"

func TestForCluster(t *testing.T) {
	tests := []struct {
		idx  int
		want Class
	}{
		{0, NotPopular},
		{1, ModeratelyPopular},
		{2, HighlyPopular},
		{3, HighlyPopular},
		{1 << 30, HighlyPopular},
		{-1, HighlyPopular},
	}

	for _, tt := range tests {
		if got := ForCluster(tt.idx); got != tt.want {
			t.Errorf("ForCluster(%d) = %v, want %v", tt.idx, got, tt.want)
		}
	}
}

func TestClassLabels(t *testing.T) {
	tests := []struct {
		class Class
		label string
		slug  string
	}{
		{NotPopular, "Not Popular", "not_popular"},
		{ModeratelyPopular, "Moderately Popular", "moderately_popular"},
		{HighlyPopular, "Highly Popular", "highly_popular"},
	}

	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			if got := tt.class.String(); got != tt.label {
				t.Errorf("String() = %q, want %q", got, tt.label)
			}
			if got := tt.class.Slug(); got != tt.slug {
				t.Errorf("Slug() = %q, want %q", got, tt.slug)
			}
			if tt.class.Description() == "" {
				t.Error("Description() is empty")
			}
		})
	}
}
