package canceltoken

import (
	"runtime"
	"strconv"
)

// triggerSite records the single stack frame from which Trigger was called.
// A full trace would be overkill here: cancellation errors only need to point
// at whoever pulled the trigger.
type triggerSite struct {
	Function string
	File     string
	Line     int
}

// callerSite captures the frame `skip` levels above the caller of callerSite.
func callerSite(skip uint) triggerSite {
	// skip the frames introduced by runtime.Callers and callerSite itself
	var pc [3]uintptr
	n := runtime.Callers(int(skip)+2, pc[:])
	if n == 0 {
		return triggerSite{}
	}

	frame, _ := runtime.CallersFrames(pc[:n]).Next()
	return triggerSite{
		Function: frame.Function,
		File:     frame.File,
		Line:     frame.Line,
	}
}

func (s triggerSite) String() string {
	var buf []byte

	if s.Function == "" {
		buf = append(buf, "<unknown function>"...)
	} else {
		buf = append(buf, s.Function...)
	}

	buf = append(buf, " ("...)
	if s.File == "" {
		buf = append(buf, "<unknown file>"...)
	} else {
		buf = append(buf, s.File...)
		if s.Line != 0 {
			buf = append(buf, byte(':'))
			buf = strconv.AppendInt(buf, int64(s.Line), 10)
		}
	}
	buf = append(buf, byte(')'))

	return string(buf)
}
