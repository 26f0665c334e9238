package gitstatus

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
	"strconv"
	"strings"

	apperrors "github.com/alexisbeaulieu97/promptkit/pkg/errors"
)

// Command runs `git status --porcelain=v2 --branch` in a subprocess.
type Command struct {
	// Binary is the git executable; empty means "git" from PATH.
	Binary string
}

func (c Command) Status(ctx context.Context, dir string) (Status, error) {
	binary := c.Binary
	if binary == "" {
		binary = "git"
	}

	cmd := exec.CommandContext(ctx, binary, "-C", dir, "status", "--porcelain=v2", "--branch")
	cmd.Env = append(os.Environ(), "GIT_OPTIONAL_LOCKS=0", "LC_ALL=C")
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return Status{}, ctxErr
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && strings.Contains(stderr.String(), "not a git repository") {
			return Status{}, ErrNotRepository
		}
		return Status{}, apperrors.New(apperrors.CodeSystemCall, "run git status", err, map[string]interface{}{
			"dir":    dir,
			"stderr": strings.TrimSpace(stderr.String()),
		})
	}
	return ParsePorcelainV2(stdout.Bytes())
}

// ParsePorcelainV2 reads the output of `git status --porcelain=v2 --branch`.
func ParsePorcelainV2(out []byte) (Status, error) {
	var (
		st  Status
		oid string
	)
	scanner := bufio.NewScanner(bytes.NewReader(out))
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		switch line[0] {
		case '#':
			fields := strings.Fields(line)
			if len(fields) < 3 {
				continue
			}
			switch fields[1] {
			case "branch.oid":
				oid = fields[2]
			case "branch.head":
				if fields[2] == "(detached)" {
					st.Detached = true
				} else {
					st.Branch = fields[2]
				}
			case "branch.upstream":
				st.Upstream = fields[2]
			case "branch.ab":
				if len(fields) < 4 {
					return st, apperrors.NewParseError("", 0, errors.New("malformed branch.ab line: "+line))
				}
				ahead, err1 := strconv.Atoi(strings.TrimPrefix(fields[2], "+"))
				behind, err2 := strconv.Atoi(strings.TrimPrefix(fields[3], "-"))
				if err := errors.Join(err1, err2); err != nil {
					return st, apperrors.NewParseError("", 0, err)
				}
				st.Ahead, st.Behind = ahead, behind
			}
		case '1', '2':
			if len(line) < 4 {
				return st, apperrors.NewParseError("", 0, errors.New("malformed change line: "+line))
			}
			if line[2] != '.' {
				st.Staged++
			}
			if line[3] != '.' {
				st.Unstaged++
			}
		case 'u':
			st.Conflicted++
		case '?':
			st.Untracked++
		}
	}
	if err := scanner.Err(); err != nil {
		return st, apperrors.NewParseError("", 0, err)
	}
	if st.Detached && len(oid) >= 7 {
		st.Branch = oid[:7]
	}
	return st, nil
}
