package data

import (
	"encoding/json"
	"io"
	"os"

	"ev-charge-planner/internal/model"
)

// LoadAwattarJSON reads a saved /v1/marketdata response from disk.
func LoadAwattarJSON(path string) ([]model.PriceSlot, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return DecodeAwattar(f)
}

func DecodeAwattar(r io.Reader) ([]model.PriceSlot, error) {
	var resp model.AwattarResponse
	if err := json.NewDecoder(r).Decode(&resp); err != nil {
		return nil, err
	}
	return resp.Slots(), nil
}
