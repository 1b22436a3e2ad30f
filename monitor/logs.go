package monitor

import (
	"bufio"
	"errors"
	"io"
	"net/http"
	"os"
	"strconv"

	"github.com/gin-gonic/gin"
)

const (
	defaultTailLines = 200
	maxTailLines     = 5000
)

// TailLines returns at most n trailing lines of r.
func TailLines(r io.Reader, n int) ([]string, error) {
	if n <= 0 {
		return nil, nil
	}
	ring := make([]string, 0, n)
	start := 0
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 1024*1024)
	for sc.Scan() {
		if len(ring) < n {
			ring = append(ring, sc.Text())
			continue
		}
		ring[start] = sc.Text()
		start = (start + 1) % n
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return append(ring[start:], ring[:start]...), nil
}

// LogsHandler serves the tail of the backend log file as plain text.
// ?lines= selects how many lines, capped at maxTailLines.
func LogsHandler(path func() string) gin.HandlerFunc {
	return func(c *gin.Context) {
		n := defaultTailLines
		if raw := c.Query("lines"); raw != "" {
			v, err := strconv.Atoi(raw)
			if err != nil || v <= 0 {
				c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid lines"})
				return
			}
			n = v
		}
		if n > maxTailLines {
			n = maxTailLines
		}

		f, err := os.Open(path())
		if errors.Is(err, os.ErrNotExist) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "log file not found"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "unable to read log"})
			return
		}
		defer f.Close()

		lines, err := TailLines(f, n)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "unable to read log"})
			return
		}

		var out []byte
		for _, l := range lines {
			out = append(out, l...)
			out = append(out, '\n')
		}
		c.Data(http.StatusOK, "text/plain; charset=utf-8", out)
	}
}
