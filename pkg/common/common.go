package common

import (
	"encoding/json"
	"io"
	"math/rand"
	"net/http"
)

var letterRunes = []rune("abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789")

func RandStringRunes(n int) string {
	b := make([]rune, n)
	for i := range b {
		b[i] = letterRunes[rand.Intn(len(letterRunes))]
	}
	return string(b)
}

// WriteMsg writes `{"error": msg}` for error statuses and
// `{"message": msg}` otherwise.
func WriteMsg(w http.ResponseWriter, msg string, status int) {
	w.WriteHeader(status)
	field := "message"
	if status >= http.StatusBadRequest {
		field = "error"
	}
	//nolint:errcheck
	json.NewEncoder(w).Encode(map[string]string{field: msg})
}

func WriteRespJSON(w http.ResponseWriter, v interface{}) {
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, `{"error":"can't encode response"}`, http.StatusInternalServerError)
	}
}

func ParseReqBody(body io.ReadCloser, v interface{}) error {
	defer body.Close()
	return json.NewDecoder(body).Decode(v)
}
