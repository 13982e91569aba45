package errors

import (
	"encoding/json"
	"fmt"
)

// BadDifficultyErrData describes a block whose compact bits differ from the bits
// required by the retarget rules.
type BadDifficultyErrData struct {
	Height   int32  `json:"height"`
	Expected uint32 `json:"expected"`
	Actual   uint32 `json:"actual"`
}

func (e *BadDifficultyErrData) Error() string {
	return fmt.Sprintf("block %d has bits %08x, expected %08x", e.Height, e.Actual, e.Expected)
}

func (e *BadDifficultyErrData) EncodeErrorData() []byte {
	data, err := json.Marshal(e)
	if err != nil {
		return []byte{}
	}

	return data
}

func (e *BadDifficultyErrData) GetData(key string) interface{} {
	switch key {
	case "height":
		return e.Height
	case "expected":
		return e.Expected
	case "actual":
		return e.Actual
	}

	return nil
}

func (e *BadDifficultyErrData) SetData(string, interface{}) {}

// NewBadDifficultyErr returns an ERR_BAD_DIFFICULTY error carrying the offending height and bits.
func NewBadDifficultyErr(height int32, expected, actual uint32) error {
	data := &BadDifficultyErrData{
		Height:   height,
		Expected: expected,
		Actual:   actual,
	}

	e := New(ERR_BAD_DIFFICULTY, data.Error())
	e.data = data

	return e
}
