// Package csvfile reads and writes header history as CSV with the columns
// height,hash,version,time,bits,nonce,pow_hash. Hashes are in the usual byte
// reversed hex, bits in big endian hex and pow_hash may be empty.
package csvfile

import (
	"io"

	"github.com/bsv-blockchain/go-bt/v2/chainhash"
	"github.com/gocarina/gocsv"
	"github.com/smileycoin/smlypow/errors"
	"github.com/smileycoin/smlypow/model"
)

type Record struct {
	Height  int32      `csv:"height"`
	Hash    string     `csv:"hash"`
	Version int32      `csv:"version"`
	Time    uint32     `csv:"time"`
	Bits    model.NBit `csv:"bits"`
	Nonce   uint32     `csv:"nonce"`
	PowHash string     `csv:"pow_hash"`
}

func NewRecord(height int32, header *model.BlockHeader) *Record {
	r := &Record{
		Height:  height,
		Version: header.Version,
		Time:    header.Timestamp,
		Bits:    header.Bits,
		Nonce:   header.Nonce,
	}

	if header.Hash != nil {
		r.Hash = header.Hash.String()
	}

	if header.PowHash != nil {
		r.PowHash = header.PowHash.String()
	}

	return r
}

func (r *Record) Header() (*model.BlockHeader, error) {
	header := &model.BlockHeader{
		Version:   r.Version,
		Timestamp: r.Time,
		Bits:      r.Bits,
		Nonce:     r.Nonce,
	}

	var err error

	if r.Hash != "" {
		if header.Hash, err = chainhash.NewHashFromStr(r.Hash); err != nil {
			return nil, errors.NewInvalidArgumentError("invalid hash at height %d", r.Height, err)
		}
	}

	if r.PowHash != "" {
		if header.PowHash, err = chainhash.NewHashFromStr(r.PowHash); err != nil {
			return nil, errors.NewInvalidArgumentError("invalid pow hash at height %d", r.Height, err)
		}
	}

	return header, nil
}

// ReadHeaders parses a header file. The rows must be in height order starting
// at startHeight with no gaps.
func ReadHeaders(r io.Reader, startHeight int32) ([]*model.BlockHeader, error) {
	var records []*Record

	if err := gocsv.Unmarshal(r, &records); err != nil {
		return nil, errors.NewInvalidArgumentError("error parsing header file", err)
	}

	headers := make([]*model.BlockHeader, 0, len(records))

	for i, record := range records {
		if want := startHeight + int32(i); record.Height != want { //nolint:gosec // file sizes fit in int32
			return nil, errors.NewInvalidArgumentError("header file row %d has height %d, expected %d", i+1, record.Height, want)
		}

		header, err := record.Header()
		if err != nil {
			return nil, err
		}

		headers = append(headers, header)
	}

	return headers, nil
}

// WriteHeaders writes headers with heights counted from startHeight.
func WriteHeaders(w io.Writer, startHeight int32, headers []*model.BlockHeader) error {
	records := make([]*Record, 0, len(headers))
	for i, header := range headers {
		records = append(records, NewRecord(startHeight+int32(i), header)) //nolint:gosec // file sizes fit in int32
	}

	if err := gocsv.Marshal(records, w); err != nil {
		return errors.NewProcessingError("error writing header file", err)
	}

	return nil
}
