package dto

import "testing"

func TestExtraHeaders_SetAndString_Golden(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		in      string
		want    map[string]string
		wantErr bool
	}{
		{
			name: "single header",
			in:   "ETId=50",
			want: map[string]string{"ETId": "50"},
		},
		{
			name: "multiple headers with spaces",
			in:   "SV=1, DV=2",
			want: map[string]string{"SV": "1", "DV": "2"},
		},
		{
			name: "value containing equals",
			in:   "X-Sig=a=b",
			want: map[string]string{"X-Sig": "a=b"},
		},
		{
			name:    "missing separator",
			in:      "broken",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			eh := make(ExtraHeaders)
			err := eh.Set(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q", tt.in)
				}
				return
			}
			if err != nil {
				t.Fatalf("Set err: %v", err)
			}
			for k, v := range tt.want {
				if eh[k] != v {
					t.Fatalf("eh[%q]=%q want %q", k, eh[k], v)
				}
			}
			if s := eh.String(); len(s) == 0 || s[0] != '{' {
				t.Fatalf("String()=%q not json object", s)
			}
		})
	}
}
