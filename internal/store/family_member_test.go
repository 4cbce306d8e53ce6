package store

import (
	"testing"

	"github.com/stefandinca/FamilyCommandCenter-sub000/internal/model"
)

func TestMemberCreateAndList(t *testing.T) {
	s := NewFamilyMemberStore(openTestDB(t))

	first, err := s.Create("Dana", model.RoleParent, "#3B82F6", "🦊", "", "", "")
	if err != nil {
		t.Fatalf("create member: %v", err)
	}
	second, err := s.Create("Alex", model.RoleChild, "#F59E0B", "🐢", "", "", "")
	if err != nil {
		t.Fatalf("create member: %v", err)
	}

	if first.SortOrder >= second.SortOrder {
		t.Errorf("sort order should grow with creation: %d then %d", first.SortOrder, second.SortOrder)
	}

	members, err := s.List()
	if err != nil {
		t.Fatalf("list members: %v", err)
	}
	if len(members) != 2 {
		t.Fatalf("list has %d members, want 2", len(members))
	}
	if members[0].Name != "Dana" {
		t.Errorf("first member = %q, want %q", members[0].Name, "Dana")
	}
}

func TestMemberCanManage(t *testing.T) {
	parent := model.FamilyMember{Role: model.RoleParent}
	child := model.FamilyMember{Role: model.RoleChild}

	if !parent.CanManage() {
		t.Error("parent should be able to manage")
	}
	if child.CanManage() {
		t.Error("child should not be able to manage")
	}
}

func TestMemberPINLifecycle(t *testing.T) {
	s := NewFamilyMemberStore(openTestDB(t))

	member, err := s.Create("Dana", model.RoleParent, "", "", "", "", "")
	if err != nil {
		t.Fatalf("create member: %v", err)
	}
	if member.HasPIN {
		t.Error("new member should not have a PIN")
	}

	if err := s.SetPIN(member.ID, "hashed-secret"); err != nil {
		t.Fatalf("set pin: %v", err)
	}

	got, err := s.GetByID(member.ID)
	if err != nil {
		t.Fatalf("get member: %v", err)
	}
	if !got.HasPIN {
		t.Error("member should report a PIN after SetPIN")
	}

	hash, err := s.GetPINHash(member.ID)
	if err != nil {
		t.Fatalf("get pin hash: %v", err)
	}
	if hash != "hashed-secret" {
		t.Errorf("pin hash = %q, want %q", hash, "hashed-secret")
	}

	if err := s.ClearPIN(member.ID); err != nil {
		t.Fatalf("clear pin: %v", err)
	}
	got, err = s.GetByID(member.ID)
	if err != nil {
		t.Fatalf("get member: %v", err)
	}
	if got.HasPIN {
		t.Error("member should not report a PIN after ClearPIN")
	}
}

func TestMemberUpdateSortOrder(t *testing.T) {
	s := NewFamilyMemberStore(openTestDB(t))

	a, err := s.Create("A", model.RoleParent, "", "", "", "", "")
	if err != nil {
		t.Fatalf("create member: %v", err)
	}
	b, err := s.Create("B", model.RoleParent, "", "", "", "", "")
	if err != nil {
		t.Fatalf("create member: %v", err)
	}

	if err := s.UpdateSortOrder([]int64{b.ID, a.ID}); err != nil {
		t.Fatalf("update sort order: %v", err)
	}

	members, err := s.List()
	if err != nil {
		t.Fatalf("list members: %v", err)
	}
	if members[0].Name != "B" {
		t.Errorf("first member after reorder = %q, want %q", members[0].Name, "B")
	}
}
