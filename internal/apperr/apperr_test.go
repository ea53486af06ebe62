package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestWrapKeepsCause(t *testing.T) {
	cause := errors.New("disk full")
	err := Wrap(CodeStorageFailure, cause, "saving snapshot")

	if !errors.Is(err, cause) {
		t.Error("expected wrapped cause to be reachable with errors.Is")
	}
	if err.Code() != CodeStorageFailure {
		t.Errorf("expected code %s, got %s", CodeStorageFailure, err.Code())
	}
}

func TestIsThroughFmtWrapping(t *testing.T) {
	err := fmt.Errorf("confirming pickup: %w", New(CodeOrderNotFound, "order ord_1 not found"))

	if !Is(err, CodeOrderNotFound) {
		t.Error("expected Is to find the code through fmt wrapping")
	}
	if Is(err, CodeProviderMismatch) {
		t.Error("unexpected match on a different code")
	}
	if CodeOf(err) != CodeOrderNotFound {
		t.Errorf("expected CodeOf = %s, got %s", CodeOrderNotFound, CodeOf(err))
	}
}

func TestCodeOfUncodedError(t *testing.T) {
	if got := CodeOf(errors.New("boom")); got != CodeStorageFailure {
		t.Errorf("expected uncoded errors to map to %s, got %s", CodeStorageFailure, got)
	}
	if got := CodeOf(nil); got != CodeStorageFailure {
		t.Errorf("expected nil to map to %s, got %s", CodeStorageFailure, got)
	}
}

func TestMetadataFor(t *testing.T) {
	tests := []struct {
		code    Code
		status  int
		details bool
	}{
		{CodeInvalidRequest, http.StatusBadRequest, true},
		{CodeInsufficientStock, http.StatusConflict, true},
		{CodeOrderNotFound, http.StatusNotFound, true},
		{CodeProviderMismatch, http.StatusForbidden, true},
		{CodeStorageFailure, http.StatusInternalServerError, false},
		// Unknown codes fail closed.
		{"SOMETHING_ELSE", http.StatusInternalServerError, false},
	}

	for _, tt := range tests {
		meta := MetadataFor(tt.code)
		if meta.HTTPStatus != tt.status {
			t.Errorf("MetadataFor(%s).HTTPStatus = %d, want %d", tt.code, meta.HTTPStatus, tt.status)
		}
		if meta.DetailsAllowed != tt.details {
			t.Errorf("MetadataFor(%s).DetailsAllowed = %v, want %v", tt.code, meta.DetailsAllowed, tt.details)
		}
	}
}
