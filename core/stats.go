package core

// Stats counts what the loop has done since boot. Counters wrap at 2^32.
type Stats struct {
	Cycles      uint32
	Matches     uint32
	Misses      uint32
	DACWrites   uint32
	Clipped     uint32
	BusErrors   uint32
	LadderSteps uint32
	LastWord    uint16
	LastCode    uint8
}

func (s *Stats) record(res Result, sampleErr error) {
	s.Cycles++
	s.LadderSteps += uint32(res.Steps)
	if sampleErr != nil {
		s.BusErrors++
	}
	if !res.Found {
		s.Misses++
		return
	}
	s.Matches++
	s.LastCode = res.Code
	if res.Clipped {
		s.Clipped++
	}
	if res.Err != nil {
		s.BusErrors++
		return
	}
	s.DACWrites++
	s.LastWord = res.Word
}
