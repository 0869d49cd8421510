package lock

import (
	"encoding/json"
	"os"
	"strconv"
	"time"
)

// LockInfo contains metadata about who holds the daemon lock.
type LockInfo struct {
	User     string    `json:"user"`
	Hostname string    `json:"hostname"`
	Started  time.Time `json:"started"`
	PID      int       `json:"pid"`
}

// NewLockInfo creates a LockInfo for the current process.
func NewLockInfo() *LockInfo {
	hostname, err := os.Hostname()
	if err != nil {
		hostname = "unknown"
	}

	user := os.Getenv("USER")
	if user == "" {
		user = "unknown"
	}

	return &LockInfo{
		User:     user,
		Hostname: hostname,
		Started:  time.Now(),
		PID:      os.Getpid(),
	}
}

// Age returns how long ago the lock was acquired.
func (i *LockInfo) Age() time.Duration {
	return time.Since(i.Started)
}

// Marshal serializes the LockInfo to JSON.
func (i *LockInfo) Marshal() ([]byte, error) {
	return json.Marshal(i)
}

// ParseLockInfo deserializes JSON data into a LockInfo.
func ParseLockInfo(data []byte) (*LockInfo, error) {
	var info LockInfo
	if err := json.Unmarshal(data, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// String returns a human-readable description of who holds the lock.
func (i *LockInfo) String() string {
	return i.User + "@" + i.Hostname + " (pid " + strconv.Itoa(i.PID) + ")"
}
