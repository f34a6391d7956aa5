// SPDX-License-Identifier: EPL-2.0

package dataset

import "github.com/ik5/beatdriver/bands"

// Row is the flat, serializable form of a Frame. Onset flags are stored as
// 0 or 1 so every column is numeric.
type Row struct {
	Frame           int64   `json:"frame"            parquet:"frame"`
	SubBass         float64 `json:"sub_bass"         parquet:"sub_bass"`
	Bass            float64 `json:"bass"             parquet:"bass"`
	LowMid          float64 `json:"low_mid"          parquet:"low_mid"`
	Mid             float64 `json:"mid"              parquet:"mid"`
	HighMid         float64 `json:"high_mid"         parquet:"high_mid"`
	Presence        float64 `json:"presence"         parquet:"presence"`
	Brilliance      float64 `json:"brilliance"       parquet:"brilliance"`
	OnsetSubBass    int32   `json:"onset_sub_bass"   parquet:"onset_sub_bass"`
	OnsetBass       int32   `json:"onset_bass"       parquet:"onset_bass"`
	OnsetLowMid     int32   `json:"onset_low_mid"    parquet:"onset_low_mid"`
	OnsetMid        int32   `json:"onset_mid"        parquet:"onset_mid"`
	OnsetHighMid    int32   `json:"onset_high_mid"   parquet:"onset_high_mid"`
	OnsetPresence   int32   `json:"onset_presence"   parquet:"onset_presence"`
	OnsetBrilliance int32   `json:"onset_brilliance" parquet:"onset_brilliance"`
	Pulse           float64 `json:"pulse"            parquet:"pulse"`
	Loudness        float64 `json:"loudness"         parquet:"loudness"`
}

// Columns returns the header used by every tabular writer.
func Columns() []string {
	cols := make([]string, 0, 2*bands.Count+3)
	cols = append(cols, "frame")
	for _, b := range bands.All {
		cols = append(cols, b.Key())
	}
	for _, b := range bands.All {
		cols = append(cols, "onset_"+b.Key())
	}
	return append(cols, "pulse", "loudness")
}

func flag(v bool) int32 {
	if v {
		return 1
	}
	return 0
}

// ToRow flattens f.
func (f Frame) ToRow() Row {
	return Row{
		Frame:           int64(f.Index),
		SubBass:         f.Bands[bands.SubBass],
		Bass:            f.Bands[bands.Bass],
		LowMid:          f.Bands[bands.LowMid],
		Mid:             f.Bands[bands.Mid],
		HighMid:         f.Bands[bands.HighMid],
		Presence:        f.Bands[bands.Presence],
		Brilliance:      f.Bands[bands.Brilliance],
		OnsetSubBass:    flag(f.Onsets[bands.SubBass]),
		OnsetBass:       flag(f.Onsets[bands.Bass]),
		OnsetLowMid:     flag(f.Onsets[bands.LowMid]),
		OnsetMid:        flag(f.Onsets[bands.Mid]),
		OnsetHighMid:    flag(f.Onsets[bands.HighMid]),
		OnsetPresence:   flag(f.Onsets[bands.Presence]),
		OnsetBrilliance: flag(f.Onsets[bands.Brilliance]),
		Pulse:           f.Pulse,
		Loudness:        f.Loudness,
	}
}

// ToFrame rebuilds the Frame r was made from.
func (r Row) ToFrame() Frame {
	return Frame{
		Index: int(r.Frame),
		Bands: [bands.Count]float64{
			r.SubBass, r.Bass, r.LowMid, r.Mid, r.HighMid, r.Presence, r.Brilliance,
		},
		Onsets: [bands.Count]bool{
			r.OnsetSubBass != 0, r.OnsetBass != 0, r.OnsetLowMid != 0, r.OnsetMid != 0,
			r.OnsetHighMid != 0, r.OnsetPresence != 0, r.OnsetBrilliance != 0,
		},
		Pulse:    r.Pulse,
		Loudness: r.Loudness,
	}
}

// Rows flattens every frame of d.
func (d *Dataset) Rows() []Row {
	rows := make([]Row, len(d.frames))
	for i, f := range d.frames {
		rows[i] = f.ToRow()
	}
	return rows
}

// values returns r in Columns order.
func (r Row) values() []float64 {
	return []float64{
		float64(r.Frame),
		r.SubBass, r.Bass, r.LowMid, r.Mid, r.HighMid, r.Presence, r.Brilliance,
		float64(r.OnsetSubBass), float64(r.OnsetBass), float64(r.OnsetLowMid), float64(r.OnsetMid),
		float64(r.OnsetHighMid), float64(r.OnsetPresence), float64(r.OnsetBrilliance),
		r.Pulse, r.Loudness,
	}
}
