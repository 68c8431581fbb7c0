package models

import "testing"

func TestSignUpToCreateUser(t *testing.T) {
	tests := []struct {
		name, first, last string
	}{
		{name: "Carol Jones", first: "Carol", last: "Jones"},
		{name: "  Cher ", first: "Cher", last: ""},
		{name: "Mary Ann Evans", first: "Mary", last: "Ann Evans"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dto := (&SignUpDto{Username: "u", Email: "u@example.com", Name: tt.name, Password: "secret1"}).ToCreateUser()
			if dto.FirstName != tt.first || dto.LastName != tt.last {
				t.Fatalf("expected %q/%q, got %q/%q", tt.first, tt.last, dto.FirstName, dto.LastName)
			}
			if dto.Role != UserRoleCustomer {
				t.Fatalf("expected customer role, got %q", dto.Role)
			}
		})
	}
}

func TestUpdatesSkipUnsetFields(t *testing.T) {
	name := "Dune"
	var genre int64 = 2
	updates := (&UpdateProductDto{Name: &name, SubGenre: &genre}).Updates()
	if len(updates) != 2 || updates["Name"] != "Dune" || updates["SubGenre"] != int64(2) {
		t.Fatalf("unexpected updates: %v", updates)
	}

	if updates := (&UpdateOrderDto{}).Updates(); len(updates) != 0 {
		t.Fatalf("expected no updates, got %v", updates)
	}
}

func TestUserIsAdmin(t *testing.T) {
	if !(&User{Role: "Admin"}).IsAdmin() {
		t.Fatal("role match should ignore case")
	}
	if (&User{Role: UserRoleEmployee}).IsAdmin() {
		t.Fatal("employee is not admin")
	}
}
