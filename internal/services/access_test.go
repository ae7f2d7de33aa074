package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/avelars/pantrylist-backend/internal/apperr"
)

func TestResolveAccess_OwnerAlwaysEdits(t *testing.T) {
	env := newTestEnv(t)
	ownerID, subID := seedOwner(t, env, "owner@example.com")

	access, err := env.access.Resolve(context.Background(), ownerID)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if access.SubscriptionID != subID {
		t.Fatalf("expected subscription %s, got %s", subID, access.SubscriptionID)
	}
	if !access.IsOwner || !access.CanEdit {
		t.Fatalf("owner must have full edit rights, got %+v", access)
	}
}

func TestResolveAccess_MemberEditDependsOnFlags(t *testing.T) {
	env := newTestEnv(t)
	_, subID := seedOwner(t, env, "owner@example.com")
	editor := seedMember(t, env, subID, "editor@example.com", true)
	viewer := seedMember(t, env, subID, "viewer@example.com", false)
	ctx := context.Background()

	access, err := env.access.Resolve(ctx, editor)
	if err != nil {
		t.Fatalf("resolve editor: %v", err)
	}
	if access.IsOwner || !access.CanEdit {
		t.Fatalf("expected editing member, got %+v", access)
	}

	access, err = env.access.Resolve(ctx, viewer)
	if err != nil {
		t.Fatalf("resolve viewer: %v", err)
	}
	if access.CanEdit {
		t.Fatalf("member without the flag must not edit")
	}
}

func TestResolveAccess_UnknownUserIsNotFound(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.access.Resolve(context.Background(), uuid.New())
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestResolveAccess_InactiveMemberCannotEdit(t *testing.T) {
	env := newTestEnv(t)
	ownerID, subID := seedOwner(t, env, "owner@example.com")
	memberID := seedMember(t, env, subID, "member@example.com", true)
	ctx := context.Background()

	if _, err := env.member.SetActive(ctx, ownerID, memberID, false); err != nil {
		t.Fatalf("deactivate: %v", err)
	}
	access, err := env.access.Resolve(ctx, memberID)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if access.CanEdit {
		t.Fatalf("deactivated member must not edit")
	}
}
