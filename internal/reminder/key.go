package reminder

import (
	"fmt"
	"strconv"
	"strings"
)

const keyPrefix = "reminder_"

// Key identifies one (task, lead-time) reminder pair. Its string form is the
// wake-timer key, so a fired timer can be resolved back to its task without
// a side index. Task IDs may themselves contain underscores; the lead time
// is always the segment after the last one.
type Key struct {
	TaskID      string
	LeadMinutes int
}

func (k Key) String() string {
	return fmt.Sprintf("%s%s_%d", keyPrefix, k.TaskID, k.LeadMinutes)
}

// TaskPrefix is the timer-key prefix shared by every reminder of a task.
func TaskPrefix(taskID string) string {
	return keyPrefix + taskID + "_"
}

// ParseKey is the validated inverse of Key.String. The ok result is false
// for anything that does not round-trip; callers treat that as a stale or
// foreign timer and move on.
func ParseKey(raw string) (Key, bool) {
	rest, found := strings.CutPrefix(raw, keyPrefix)
	if !found {
		return Key{}, false
	}
	idx := strings.LastIndex(rest, "_")
	if idx <= 0 || idx == len(rest)-1 {
		return Key{}, false
	}
	lead, err := strconv.Atoi(rest[idx+1:])
	if err != nil || lead <= 0 {
		return Key{}, false
	}
	return Key{TaskID: rest[:idx], LeadMinutes: lead}, true
}
