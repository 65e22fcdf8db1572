package transport

import (
	"encoding/json"
	"testing"

	"rental_portal_backend/platform/validator"

	"github.com/google/uuid"
)

func newValidator(t *testing.T) *validator.Validator {
	t.Helper()
	val := validator.New()
	if err := RegisterValidations(val); err != nil {
		t.Fatalf("register: %v", err)
	}
	return val
}

func TestOptionalUUID(t *testing.T) {
	id := uuid.New()

	cases := []struct {
		name     string
		body     string
		wantSet  bool
		wantNull bool
		wantErr  bool
	}{
		{"absent", `{}`, false, false, false},
		{"null", `{"sellerId":null}`, true, true, false},
		{"empty string", `{"sellerId":""}`, true, true, false},
		{"value", `{"sellerId":"` + id.String() + `"}`, true, false, false},
		{"garbage", `{"sellerId":"nope"}`, false, false, true},
		{"number", `{"sellerId":12}`, false, false, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var req AssignLeadRequest
			err := json.Unmarshal([]byte(tc.body), &req)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if req.SellerID.Set != tc.wantSet || req.SellerID.IsNull() != tc.wantNull {
				t.Fatalf("got set=%v null=%v", req.SellerID.Set, req.SellerID.IsNull())
			}
			if tc.name == "value" && *req.SellerID.Value != id {
				t.Fatalf("got %v, want %v", req.SellerID.Value, id)
			}
		})
	}
}

func TestLeadStatusTag(t *testing.T) {
	val := newValidator(t)

	cases := map[string]bool{
		"interesado":        true,
		" renta_concretada": true,
		"Interesado":        false,
		"closed":            false,
		"":                  false,
	}
	for status, valid := range cases {
		err := val.Struct(UpdateLeadStatusRequest{Status: status})
		if (err == nil) != valid {
			t.Errorf("status %q: valid=%v, err=%v", status, valid, err)
		}
	}
}

func TestCreateLeadRequestNeedsAContact(t *testing.T) {
	val := newValidator(t)

	cases := []struct {
		name  string
		req   CreateLeadRequest
		valid bool
	}{
		{"email only", CreateLeadRequest{FirstName: "Ana", Email: "ana@example.com"}, true},
		{"phone only", CreateLeadRequest{FirstName: "Ana", Phone: "5512345678"}, true},
		{"no contact", CreateLeadRequest{FirstName: "Ana"}, false},
		{"bad email", CreateLeadRequest{FirstName: "Ana", Email: "not-an-email"}, false},
		{"missing name", CreateLeadRequest{Email: "ana@example.com"}, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := val.Struct(tc.req)
			if (err == nil) != tc.valid {
				t.Fatalf("valid=%v, err=%v", tc.valid, err)
			}
		})
	}
}
