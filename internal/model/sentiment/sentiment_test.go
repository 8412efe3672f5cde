package sentiment

import "testing"

func TestScoreHeadline(t *testing.T) {
	cases := []struct {
		headline string
		positive bool
	}{
		{"Shares surge after record profit beat", true},
		{"Stock plunges as lawsuit fears mount", false},
		{"Analysts see strong growth and rally ahead", true},
		{"Company announces layoffs amid weak quarter", false},
	}
	for _, tc := range cases {
		score := scoreHeadline(tc.headline)
		if tc.positive && score <= 0 {
			t.Errorf("Expected positive score for %q, got %f", tc.headline, score)
		}
		if !tc.positive && score >= 0 {
			t.Errorf("Expected negative score for %q, got %f", tc.headline, score)
		}
	}
}

func TestScoreHeadlineNeutral(t *testing.T) {
	if score := scoreHeadline("Quarterly report published on schedule"); score != 0 {
		t.Errorf("Expected neutral score, got %f", score)
	}
	if score := scoreHeadline(""); score != 0 {
		t.Errorf("Expected neutral score for empty headline, got %f", score)
	}
}

func TestScoreHeadlineClamped(t *testing.T) {
	loud := "surge rally gain soar jump rise bullish upgrade beat record strong growth"
	if score := scoreHeadline(loud); score != 1 {
		t.Errorf("Expected score clamped to 1, got %f", score)
	}
}

func TestScoreHeadlineStripsPunctuation(t *testing.T) {
	if score := scoreHeadline("A big miss, and a downgrade."); score >= 0 {
		t.Errorf("Expected punctuated words to count, got %f", score)
	}
}
