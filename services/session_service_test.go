package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/vnkhanh/mentorship-backend/services"
	"github.com/vnkhanh/mentorship-backend/testfixtures"
)

func TestSessionService_ListForUser(t *testing.T) {
	f := newRequestFixture(t)
	ctx := context.Background()
	sessions := services.NewSessionService(f.db)
	beatriz, _ := testfixtures.CreateSeeker(t, f.db, "Beatriz", "Data", 30)

	later := f.create(t, "later")
	earlier := f.create(t, "earlier")
	fromBeatriz, err := f.svc.Create(ctx, beatriz.ID, services.CreateRequestInput{MentorID: f.carlos.ID, Message: "hola"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	accept := func(requestID uuid.UUID, date string) {
		t.Helper()
		if _, _, err := f.svc.Accept(ctx, f.carlos.ID, requestID, date); err != nil {
			t.Fatalf("accept %s: %v", date, err)
		}
	}
	accept(later.ID, "2025-03-10T09:00")
	accept(earlier.ID, "2025-03-01T15:00")
	accept(fromBeatriz.ID, "2025-03-05T12:00")

	anaSessions, err := sessions.ListForUser(ctx, f.ana.ID)
	if err != nil {
		t.Fatalf("list for seeker: %v", err)
	}
	if len(anaSessions) != 2 {
		t.Fatalf("expected 2 sessions for Ana, got %d", len(anaSessions))
	}
	if !anaSessions[0].Date.Equal(time.Date(2025, time.March, 1, 15, 0, 0, 0, time.UTC)) {
		t.Errorf("expected soonest session first, got %v", anaSessions[0].Date)
	}
	if anaSessions[0].Mentor.ProfileName != "Carlos" || anaSessions[0].Mentor.Area != "Marketing" {
		t.Errorf("expected mentor details, got %+v", anaSessions[0].Mentor)
	}
	if anaSessions[0].Seeker.ProfileName != "Ana" {
		t.Errorf("expected seeker details, got %+v", anaSessions[0].Seeker)
	}

	carlosSessions, err := sessions.ListForUser(ctx, f.carlos.ID)
	if err != nil {
		t.Fatalf("list for mentor: %v", err)
	}
	if len(carlosSessions) != 3 {
		t.Fatalf("expected 3 sessions for Carlos, got %d", len(carlosSessions))
	}
	for i := 1; i < len(carlosSessions); i++ {
		if carlosSessions[i].Date.Before(carlosSessions[i-1].Date) {
			t.Errorf("sessions not ordered by date: %v before %v", carlosSessions[i-1].Date, carlosSessions[i].Date)
		}
	}
	if carlosSessions[1].Seeker.ProfileName != "Beatriz" {
		t.Errorf("expected Beatriz in the middle session, got %+v", carlosSessions[1].Seeker)
	}
}
