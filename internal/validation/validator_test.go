// WorkAround - Study Venue Discovery and Ranking
// Copyright 2026 WorkAround Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/workaround-app/workaround

package validation

import (
	"strings"
	"testing"
)

type rangedRequest struct {
	MinRating float64 `validate:"min=0,max=5"`
	Category  string  `validate:"oneof=any cafe library"`
}

func TestValidateStructPasses(t *testing.T) {
	req := rangedRequest{MinRating: 4.5, Category: "cafe"}
	if err := ValidateStruct(&req); err != nil {
		t.Errorf("valid struct failed: %v", err)
	}
}

func TestValidateStructRangeFailure(t *testing.T) {
	req := rangedRequest{MinRating: 7, Category: "any"}
	err := ValidateStruct(&req)
	if err == nil {
		t.Fatal("expected range failure")
	}

	errs := err.Errors()
	if len(errs) != 1 {
		t.Fatalf("got %d errors, want 1", len(errs))
	}
	if errs[0].Field() != "MinRating" || errs[0].Tag() != "max" {
		t.Errorf("error = %s/%s, want MinRating/max", errs[0].Field(), errs[0].Tag())
	}
	if !strings.Contains(errs[0].Error(), "at most 5") {
		t.Errorf("message %q missing bound", errs[0].Error())
	}
}

func TestValidateStructOneOf(t *testing.T) {
	req := rangedRequest{MinRating: 4, Category: "museum"}
	err := ValidateStruct(&req)
	if err == nil {
		t.Fatal("expected oneof failure")
	}
	if !strings.Contains(err.Error(), "one of") {
		t.Errorf("message %q does not name the allowed set", err.Error())
	}
}

func TestToAPIErrorSingle(t *testing.T) {
	req := rangedRequest{MinRating: -1, Category: "any"}
	err := ValidateStruct(&req)
	if err == nil {
		t.Fatal("expected failure")
	}

	apiErr := err.ToAPIError()
	if apiErr.Code != "VALIDATION_ERROR" {
		t.Errorf("Code = %q, want VALIDATION_ERROR", apiErr.Code)
	}
	if apiErr.Details["field"] != "MinRating" {
		t.Errorf("Details.field = %v, want MinRating", apiErr.Details["field"])
	}
}

func TestToAPIErrorMultiple(t *testing.T) {
	req := rangedRequest{MinRating: 9, Category: "museum"}
	err := ValidateStruct(&req)
	if err == nil {
		t.Fatal("expected failures")
	}
	if len(err.Errors()) != 2 {
		t.Fatalf("got %d errors, want 2", len(err.Errors()))
	}

	apiErr := err.ToAPIError()
	if _, ok := apiErr.Details["fields"]; !ok {
		t.Error("multi-field error missing fields detail")
	}
}

func TestGetValidatorSingleton(t *testing.T) {
	if GetValidator() != GetValidator() {
		t.Error("GetValidator returned different instances")
	}
}
