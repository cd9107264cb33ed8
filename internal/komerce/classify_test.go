package komerce

import "testing"

func TestRateLimitSignal(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		status int
		body   string
		want   bool
	}{
		{"http 429", 429, ``, true},
		{"http 429 with empty envelope", 429, `{}`, true},
		{"clean success", 200, `{"meta":{"message":"OK","code":200,"status":"success"},"data":[]}`, false},
		{"200 with quota message", 200, `{"meta":{"message":"Daily quota exceeded","code":200,"status":"error"},"data":null}`, true},
		{"200 with limit message", 200, `{"meta":{"message":"Request limit reached","status":"error"}}`, true},
		{"200 with rate message", 200, `{"meta":{"message":"Rate threshold hit","status":"error"}}`, true},
		{"200 with uppercase markers", 200, `{"meta":{"message":"QUOTA EXCEEDED","status":"ERROR"}}`, true},
		{"error envelope without quota wording", 200, `{"meta":{"message":"destination not found","status":"error"}}`, false},
		{"quota wording but success status", 200, `{"meta":{"message":"quota remaining: 100","status":"success"}}`, false},
		{"500 with plain body", 500, `internal server error`, false},
		{"not json", 200, `<html>gateway</html>`, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := RateLimitSignal(tc.status, []byte(tc.body)); got != tc.want {
				t.Fatalf("RateLimitSignal(%d, %q) = %v, want %v", tc.status, tc.body, got, tc.want)
			}
		})
	}
}
