package http

import (
	"errors"
	"strings"
	"testing"
)

func containsFieldMsg(list []FieldError, field, substr string) bool {
	for _, e := range list {
		if e.Field == field && strings.Contains(e.Message, substr) {
			return true
		}
	}
	return false
}

func TestHex32Validation(t *testing.T) {
	type P struct {
		LoanID string `param:"loan_id" validate:"hex32"`
	}
	cv := NewValidator()

	// valid: 32-char lowercase hex
	if err := cv.Validate(P{LoanID: strings.Repeat("a", 32)}); err != nil {
		t.Fatalf("expected valid hex32, got err: %v", err)
	}

	for _, s := range []string{
		"",                                  // empty
		strings.Repeat("A", 32),             // uppercase
		"deadbeef",                          // too short
		strings.Repeat("g", 32),             // non-hex char
		"3f9a6a1b3d544fbe8b3a6b3e8d6b2c8",   // 31 chars
		"3f9a6a1b3d544fbe8b3a6b3e8d6b2c88x", // 33 with extra
	} {
		err := cv.Validate(P{LoanID: s})
		if err == nil {
			t.Fatalf("expected error for %q", s)
		}
		if fe := ToFieldErrors(err); !containsFieldMsg(fe, "loan_id", "32-char lowercase hex") {
			t.Fatalf("expected hex32 message on loan_id for %q, got: %+v", s, fe)
		}
	}
}

func TestRegisterValidation(t *testing.T) {
	cv := NewValidator()
	ok := registerReq{FullName: "Ada L", Email: "ada@example.com", Password: "secret", ConfirmPassword: "secret"}
	if err := cv.Validate(ok); err != nil {
		t.Fatalf("valid register rejected: %v", err)
	}

	bad := registerReq{FullName: "Al", Email: "nope", Password: "123", ConfirmPassword: "456", Role: "ROOT"}
	err := cv.Validate(bad)
	if err == nil {
		t.Fatal("expected validation error")
	}
	fe := ToFieldErrors(err)
	checks := map[string]string{
		"full_name":        "at least 3 characters",
		"email":            "valid email",
		"password":         "at least 6 characters",
		"confirm_password": "must match password",
		"role":             "one of [USER ADMIN]",
	}
	for field, msg := range checks {
		if !containsFieldMsg(fe, field, msg) {
			t.Fatalf("expected %q on %s, got %+v", msg, field, fe)
		}
	}
}

func TestLoanValidationBounds(t *testing.T) {
	cv := NewValidator()
	for _, tc := range []struct {
		req   createLoanReq
		field string
		msg   string
	}{
		{createLoanReq{Amount: 0, Income: 1, CreditScore: 700, TermMonths: 12}, "amount", "greater than 0"},
		{createLoanReq{Amount: 1, Income: 1, CreditScore: 299, TermMonths: 12}, "credit_score", "greater than or equal to 300"},
		{createLoanReq{Amount: 1, Income: 1, CreditScore: 851, TermMonths: 12}, "credit_score", "less than or equal to 850"},
		{createLoanReq{Amount: 1, Income: 1, CreditScore: 700, TermMonths: 361}, "term_months", "less than or equal to 360"},
	} {
		err := cv.Validate(tc.req)
		if err == nil || !containsFieldMsg(ToFieldErrors(err), tc.field, tc.msg) {
			t.Fatalf("%+v: want %q on %s, got %v", tc.req, tc.msg, tc.field, err)
		}
	}
	edges := createLoanReq{Amount: 0.01, Income: 0.01, CreditScore: 300, TermMonths: 6}
	if err := cv.Validate(edges); err != nil {
		t.Fatalf("inclusive bounds rejected: %v", err)
	}
}

func TestDecisionActionValidation(t *testing.T) {
	cv := NewValidator()
	lid := strings.Repeat("a", 32)
	for _, a := range []string{"", "APPROVED", "REJECTED"} {
		if err := cv.Validate(decideReq{LoanID: lid, Action: a}); err != nil {
			t.Fatalf("action %q rejected: %v", a, err)
		}
	}
	if err := cv.Validate(decideReq{LoanID: lid, Action: "PENDING"}); err == nil {
		t.Fatal("PENDING must not be accepted as an action")
	}
}

func TestToFieldErrors_NonValidatorError(t *testing.T) {
	fe := ToFieldErrors(errors.New("plain error"))
	if len(fe) != 1 || fe[0].Field != "_" || fe[0].Message != "plain error" {
		t.Fatalf("unexpected mapping: %+v", fe)
	}
}
