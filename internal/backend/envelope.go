package backend

import (
	"encoding/json"
	"fmt"
	"io"
)

// envelope is the response wrapper used by every commerce API endpoint.
// A missing or null data field decodes to the zero value of T so that
// empty responses never surface as errors. Paged list endpoints carry
// the overall result size in totalCount next to the page.
type envelope[T any] struct {
	ResponseBody struct {
		Data       *T   `json:"data"`
		TotalCount *int `json:"totalCount"`
	} `json:"responseBody"`
}

func decodeEnvelope[T any](r io.Reader) (T, error) {
	v, _, err := decodeCountedEnvelope[T](r)
	return v, err
}

func decodeCountedEnvelope[T any](r io.Reader) (T, int, error) {
	var zero T
	var env envelope[T]
	if err := json.NewDecoder(r).Decode(&env); err != nil {
		return zero, 0, fmt.Errorf("%w: decode envelope: %v", ErrServer, err)
	}
	total := 0
	if env.ResponseBody.TotalCount != nil {
		total = *env.ResponseBody.TotalCount
	}
	if env.ResponseBody.Data == nil {
		return zero, total, nil
	}
	return *env.ResponseBody.Data, total, nil
}
