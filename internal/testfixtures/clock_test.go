package testfixtures

import (
	"testing"
	"time"
)

func TestClockDefaultsToReferenceTime(t *testing.T) {
	clock := NewClock(time.Time{})
	if !clock.Now().Equal(ReferenceTime()) {
		t.Fatalf("expected ReferenceTime, got %v", clock.Now())
	}
}

func TestClockPinsAndAdvances(t *testing.T) {
	start := ReferenceTime()
	clock := NewClock(start)

	finish := clock.Advance(45 * time.Minute)
	if !finish.Equal(start.Add(45 * time.Minute)) {
		t.Fatalf("advance returned %v", finish)
	}
	if !clock.Now().Equal(finish) {
		t.Fatalf("expected clock at %v, got %v", finish, clock.Now())
	}

	nextSession := start.Add(48 * time.Hour)
	clock.Set(nextSession)
	if !clock.Now().Equal(nextSession) {
		t.Fatalf("expected clock at %v, got %v", nextSession, clock.Now())
	}
}

func TestClockNowFuncTracksTheClock(t *testing.T) {
	clock := NewClock(ReferenceTime())
	now := clock.NowFunc()

	if !now().Equal(clock.Now()) {
		t.Fatalf("expected %v, got %v", clock.Now(), now())
	}
	clock.Advance(time.Minute)
	if !now().Equal(clock.Now()) {
		t.Fatalf("expected %v after advance, got %v", clock.Now(), now())
	}
}
