// internal/app/system/jsonapi/jsonapi.go

// Package jsonapi writes the API's JSON envelopes. Success responses carry
// the resource body; failures carry {"success":false,"message":"…"} with the
// status code telling the class of failure.
package jsonapi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
)

// maxBodyBytes caps request bodies; profile and proposal payloads are small.
const maxBodyBytes = 1 << 20

type envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// Write encodes v as the response body with the given status.
func Write(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// OK writes v with a 200 status.
func OK(w http.ResponseWriter, v any) {
	Write(w, http.StatusOK, v)
}

// Created writes v with a 201 status.
func Created(w http.ResponseWriter, v any) {
	Write(w, http.StatusCreated, v)
}

// Message writes a success envelope with the given status and message.
func Message(w http.ResponseWriter, status int, msg string) {
	Write(w, status, envelope{Success: true, Message: msg})
}

// Fail writes a failure envelope with the given status and message.
func Fail(w http.ResponseWriter, status int, msg string) {
	Write(w, status, envelope{Success: false, Message: msg})
}

// Decode reads the request body into dst. It rejects unknown fields and
// oversized bodies so malformed payloads surface as 400s, not as silently
// zeroed fields.
func Decode(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return err
	}
	// A second document in the body is a malformed request.
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return errors.New("request body must contain a single JSON object")
	}
	return nil
}
