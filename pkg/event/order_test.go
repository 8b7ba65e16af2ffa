package event

import (
	"encoding/json"
	"testing"
)

func TestEncodeDecode(t *testing.T) {
	tests := []struct {
		name     string
		payload  any
		wantData string
	}{
		{name: "struct", payload: JoinRoom{UserID: "u1", Role: "chef"}, wantData: `{"userId":"u1","role":"chef"}`},
		{name: "raw", payload: json.RawMessage(`{"orderId":"o1"}`), wantData: `{"orderId":"o1"}`},
		{name: "nil", payload: nil, wantData: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg, err := Encode(EventJoinRoom, tt.payload)
			if err != nil {
				t.Fatalf("Encode() error = %v", err)
			}

			env, err := Decode(msg)
			if err != nil {
				t.Fatalf("Decode() error = %v", err)
			}
			if env.Event != EventJoinRoom {
				t.Errorf("Event = %q, want %q", env.Event, EventJoinRoom)
			}
			if string(env.Data) != tt.wantData {
				t.Errorf("Data = %s, want %s", env.Data, tt.wantData)
			}
		})
	}
}

func TestDecodeRejectsMissingName(t *testing.T) {
	if _, err := Decode([]byte(`{"data":{}}`)); err == nil {
		t.Fatal("expected error for envelope without event name")
	}
	if _, err := Decode([]byte(`not json`)); err == nil {
		t.Fatal("expected error for invalid json")
	}
}

func TestIsConnectivity(t *testing.T) {
	for _, name := range []string{EventConnect, EventDisconnect, EventConnectError} {
		if !IsConnectivity(name) {
			t.Errorf("IsConnectivity(%q) = false", name)
		}
	}
	if IsConnectivity(EventOrderCreated) {
		t.Error("orderCreated is not a connectivity event")
	}
}
