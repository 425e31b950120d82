package queue

import (
	"testing"
)

func TestFeedEvent_RoundTrip(t *testing.T) {
	tests := []struct {
		name  string
		event FeedEvent
	}{
		{"post created", NewPostCreatedEvent(10, 2)},
		{"post deleted", NewPostDeletedEvent(10, 2)},
		{"user followed", NewUserFollowedEvent(1, 2)},
		{"user unfollowed", NewUserUnfollowedEvent(1, 2)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			values, err := tt.event.ToMap()
			if err != nil {
				t.Fatalf("ToMap: %v", err)
			}
			if values["type"] != tt.event.Type {
				t.Errorf("type field = %v, want %s", values["type"], tt.event.Type)
			}

			got, err := ParseFeedEvent(values)
			if err != nil {
				t.Fatalf("ParseFeedEvent: %v", err)
			}
			if got != tt.event {
				t.Errorf("round trip = %+v, want %+v", got, tt.event)
			}
		})
	}
}

func TestParseFeedEvent_Malformed(t *testing.T) {
	tests := []struct {
		name   string
		values map[string]interface{}
	}{
		{"missing data", map[string]interface{}{"type": EventPostCreated}},
		{"data not a string", map[string]interface{}{"data": 42}},
		{"data not json", map[string]interface{}{"data": "{not json"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseFeedEvent(tt.values); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}
