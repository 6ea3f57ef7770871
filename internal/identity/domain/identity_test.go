package domain

import (
	"context"
	"testing"
)

func TestContextRoundTrip(t *testing.T) {
	if _, ok := FromContext(context.Background()); ok {
		t.Error("empty context should carry no identity")
	}
	ctx := NewContext(context.Background(), Identity{UserID: "u1", Email: "a@x.io"})
	id, ok := FromContext(ctx)
	if !ok || id.UserID != "u1" || id.Email != "a@x.io" {
		t.Errorf("FromContext = %+v, %v", id, ok)
	}
	if _, ok := FromContext(NewContext(context.Background(), Identity{})); ok {
		t.Error("zero identity should not count as authenticated")
	}
}
