package services

import (
	"context"
	"errors"
	"testing"

	"github.com/avelars/pantrylist-backend/internal/apperr"
)

func TestCreateMember_OnlyOwnersMayInvite(t *testing.T) {
	env := newTestEnv(t)
	_, subID := seedOwner(t, env, "owner@example.com")
	memberID := seedMember(t, env, subID, "member@example.com", true)

	_, err := env.member.Create(context.Background(), CreateMemberRequest{
		OwnerID:   memberID,
		Email:     "invitee@example.com",
		FirstName: "Invitee",
		Password:  "secret",
	})
	if !errors.Is(err, apperr.ErrAccess) {
		t.Fatalf("expected access error for non-owner, got %v", err)
	}
}

func TestCreateMember_CreatesUserAndMembership(t *testing.T) {
	env := newTestEnv(t)
	ownerID, subID := seedOwner(t, env, "owner@example.com")
	ctx := context.Background()

	member, err := env.member.Create(ctx, CreateMemberRequest{
		OwnerID:   ownerID,
		Email:     "Invitee@Example.com",
		FirstName: "Invitee",
		Password:  "secret",
		CanEdit:   true,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if member.SubscriptionID != subID {
		t.Fatalf("expected membership in %s, got %s", subID, member.SubscriptionID)
	}
	if !member.CanEdit || !member.IsActive {
		t.Fatalf("expected active editing member, got %+v", member)
	}
	if member.User == nil || member.User.Email != "invitee@example.com" {
		t.Fatalf("expected lower-cased email on created user, got %+v", member.User)
	}
	// Stored password must be a hash, not the raw secret.
	if member.User.Password == "secret" {
		t.Fatalf("password stored in plain text")
	}

	_, err = env.member.Create(ctx, CreateMemberRequest{
		OwnerID:   ownerID,
		Email:     "invitee@example.com",
		FirstName: "Again",
		Password:  "secret",
	})
	if !errors.Is(err, apperr.ErrConflict) {
		t.Fatalf("expected conflict for duplicate email, got %v", err)
	}
}

func TestMemberEditFlags_GrantRevoke(t *testing.T) {
	env := newTestEnv(t)
	ownerID, subID := seedOwner(t, env, "owner@example.com")
	memberID := seedMember(t, env, subID, "member@example.com", false)
	ctx := context.Background()

	granted, err := env.member.GrantEdit(ctx, ownerID, memberID)
	if err != nil {
		t.Fatalf("grant: %v", err)
	}
	if !granted.CanEdit {
		t.Fatalf("expected canEdit after grant")
	}

	revoked, err := env.member.RevokeEdit(ctx, ownerID, memberID)
	if err != nil {
		t.Fatalf("revoke: %v", err)
	}
	if revoked.CanEdit {
		t.Fatalf("expected canEdit cleared after revoke")
	}
}

func TestSetActive_DeactivationRevokesEdit(t *testing.T) {
	env := newTestEnv(t)
	ownerID, subID := seedOwner(t, env, "owner@example.com")
	memberID := seedMember(t, env, subID, "member@example.com", true)
	ctx := context.Background()

	deactivated, err := env.member.SetActive(ctx, ownerID, memberID, false)
	if err != nil {
		t.Fatalf("deactivate: %v", err)
	}
	if deactivated.IsActive || deactivated.CanEdit {
		t.Fatalf("deactivation must clear both flags, got %+v", deactivated)
	}

	// Reactivation does not silently restore the edit flag.
	reactivated, err := env.member.SetActive(ctx, ownerID, memberID, true)
	if err != nil {
		t.Fatalf("reactivate: %v", err)
	}
	if !reactivated.IsActive || reactivated.CanEdit {
		t.Fatalf("reactivation must leave canEdit off, got %+v", reactivated)
	}
}

func TestMemberOps_RejectForeignMembers(t *testing.T) {
	env := newTestEnv(t)
	ownerID, _ := seedOwner(t, env, "owner@example.com")
	_, otherSub := seedOwner(t, env, "other@example.com")
	foreignMember := seedMember(t, env, otherSub, "foreign@example.com", true)

	if _, err := env.member.GrantEdit(context.Background(), ownerID, foreignMember); !errors.Is(err, apperr.ErrAccess) {
		t.Fatalf("expected access error for foreign member, got %v", err)
	}
}

func TestListMembers(t *testing.T) {
	env := newTestEnv(t)
	ownerID, subID := seedOwner(t, env, "owner@example.com")
	seedMember(t, env, subID, "a@example.com", true)
	seedMember(t, env, subID, "b@example.com", false)

	members, err := env.member.List(context.Background(), ownerID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(members) != 2 {
		t.Fatalf("expected 2 members, got %d", len(members))
	}
	for _, m := range members {
		if m.User == nil {
			t.Fatalf("expected user preloaded on membership %s", m.ID)
		}
	}
}
