package signaling

import (
	"errors"
	"testing"
)

func TestParseEnvelope(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    Kind
		wantErr error
	}{
		{name: "join", raw: `{"type":"join","roomId":"r1"}`, want: KindJoin},
		{name: "offer without roomId", raw: `{"type":"offer","sdp":"X"}`, want: KindOffer},
		{name: "unknown kind forwards", raw: `{"type":"renegotiate","roomId":"r1"}`, want: Kind("renegotiate")},
		{name: "not json", raw: `offer please`, wantErr: ErrMalformedMessage},
		{name: "missing type", raw: `{"roomId":"r1"}`, wantErr: ErrMalformedMessage},
		{name: "join without roomId", raw: `{"type":"join"}`, wantErr: ErrMalformedMessage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env, err := ParseEnvelope([]byte(tt.raw))
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("parse failed: %v", err)
			}
			if env.Type != tt.want {
				t.Errorf("expected kind %q, got %q", tt.want, env.Type)
			}
		})
	}
}
