package gitstatus

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/alexisbeaulieu97/promptkit/pkg/errors"
)

func TestParsePorcelainV2(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		out  string
		want Status
	}{
		{
			name: "clean branch with upstream",
			out: "# branch.oid 1234567890abcdef\n# branch.head main\n# branch.upstream origin/main\n# branch.ab +2 -1\n",
			want: Status{Branch: "main", Upstream: "origin/main", Ahead: 2, Behind: 1},
		},
		{
			name: "changes",
			out: "# branch.oid abc\n# branch.head dev\n" +
				"1 M. N... 100644 100644 100644 a b file1\n" +
				"1 .M N... 100644 100644 100644 a b file2\n" +
				"1 MM N... 100644 100644 100644 a b file3\n" +
				"2 R. N... 100644 100644 100644 a b R100 new\told\n" +
				"u UU N... 100644 100644 100644 100644 a b c conflict\n" +
				"? untracked.txt\n? other.txt\n! ignored.log\n",
			want: Status{Branch: "dev", Staged: 3, Unstaged: 2, Conflicted: 1, Untracked: 2},
		},
		{
			name: "detached",
			out:  "# branch.oid deadbeefcafe\n# branch.head (detached)\n",
			want: Status{Branch: "deadbee", Detached: true},
		},
		{
			name: "initial commit",
			out:  "# branch.oid (initial)\n# branch.head main\n? a\n",
			want: Status{Branch: "main", Untracked: 1},
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got, err := ParsePorcelainV2([]byte(tc.out))
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestParsePorcelainV2Malformed(t *testing.T) {
	t.Parallel()

	_, err := ParsePorcelainV2([]byte("# branch.ab +x -1\n"))
	require.ErrorIs(t, err, apperrors.Parse)

	_, err = ParsePorcelainV2([]byte("1 M\n"))
	require.ErrorIs(t, err, apperrors.Parse)
}

func TestStatusDirty(t *testing.T) {
	t.Parallel()

	assert.False(t, Status{Branch: "main", Ahead: 3}.Dirty())
	assert.True(t, Status{Untracked: 1}.Dirty())
	assert.True(t, Status{Conflicted: 1}.Dirty())
}

func TestProbeTimeout(t *testing.T) {
	t.Parallel()

	slow := &Static{Result: Status{Branch: "main"}, Delay: time.Second}
	start := time.Now()
	_, err := Probe(context.Background(), slow, "/repo", 20*time.Millisecond)
	require.ErrorIs(t, err, apperrors.SystemCall)
	require.True(t, errors.Is(err, context.DeadlineExceeded))
	assert.Less(t, time.Since(start), 500*time.Millisecond)

	fast := &Static{Result: Status{Branch: "main"}}
	st, err := Probe(context.Background(), fast, "/repo", 0)
	require.NoError(t, err)
	assert.Equal(t, "main", st.Branch)
	assert.Equal(t, 1, fast.Calls())
}

func commit(t *testing.T, wt *git.Worktree, dir, name, contents string) plumbing.Hash {
	t.Helper()

	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(contents), 0o644))
	_, err := wt.Add(name)
	require.NoError(t, err)

	hash, err := wt.Commit("update "+name, &git.CommitOptions{
		Author: &object.Signature{
			Name:  "promptkit",
			Email: "promptkit@example.com",
			When:  time.Now(),
		},
	})
	require.NoError(t, err)
	return hash
}

func TestGoGitStatus(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)
	wt, err := repo.Worktree()
	require.NoError(t, err)

	first := commit(t, wt, dir, "README.md", "hello")

	head, err := repo.Head()
	require.NoError(t, err)
	branch := head.Name().Short()

	cfg, err := repo.Config()
	require.NoError(t, err)
	cfg.Branches[branch] = &config.Branch{Name: branch, Remote: "origin", Merge: plumbing.NewBranchReferenceName(branch)}
	require.NoError(t, repo.SetConfig(cfg))
	require.NoError(t, repo.Storer.SetReference(plumbing.NewHashReference(plumbing.NewRemoteReferenceName("origin", branch), first)))

	commit(t, wt, dir, "second.txt", "two")

	require.NoError(t, os.WriteFile(filepath.Join(dir, "README.md"), []byte("changed"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "staged.txt"), []byte("new"), 0o644))
	_, err = wt.Add("staged.txt")
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "untracked.txt"), []byte("?"), 0o644))

	sub := filepath.Join(dir, "nested", "deeper")
	require.NoError(t, os.MkdirAll(sub, 0o755))

	st, err := GoGit{}.Status(context.Background(), sub)
	require.NoError(t, err)
	assert.Equal(t, branch, st.Branch)
	assert.False(t, st.Detached)
	assert.Equal(t, "origin/"+branch, st.Upstream)
	assert.Equal(t, 1, st.Ahead)
	assert.Equal(t, 0, st.Behind)
	assert.Equal(t, 1, st.Staged)
	assert.Equal(t, 1, st.Unstaged)
	assert.Equal(t, 1, st.Untracked)
	assert.True(t, st.Dirty())
}

func trackUpstream(t *testing.T, repo *git.Repository, branch string, at plumbing.Hash) {
	t.Helper()

	cfg, err := repo.Config()
	require.NoError(t, err)
	cfg.Branches[branch] = &config.Branch{Name: branch, Remote: "origin", Merge: plumbing.NewBranchReferenceName(branch)}
	require.NoError(t, repo.SetConfig(cfg))
	require.NoError(t, repo.Storer.SetReference(plumbing.NewHashReference(plumbing.NewRemoteReferenceName("origin", branch), at)))
}

func TestGoGitAheadBehindBeyondWalkLimit(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name          string
		local, remote int
	}{
		{name: "ahead only", local: 1},
		{name: "ahead by several", local: 2},
		{name: "diverged", local: 2, remote: 1},
		{name: "behind only", remote: 2},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			dir := t.TempDir()
			repo, err := git.PlainInit(dir, false)
			require.NoError(t, err)
			wt, err := repo.Worktree()
			require.NoError(t, err)

			var base plumbing.Hash
			for i := 0; i < 6; i++ {
				base = commit(t, wt, dir, "history.txt", strings.Repeat("x", i+1))
			}
			head, err := repo.Head()
			require.NoError(t, err)
			branch := head.Name()

			upstream := base
			if tc.remote > 0 {
				require.NoError(t, wt.Checkout(&git.CheckoutOptions{
					Branch: plumbing.NewBranchReferenceName("upstream-side"),
					Hash:   base,
					Create: true,
				}))
				for i := 0; i < tc.remote; i++ {
					upstream = commit(t, wt, dir, "remote.txt", strings.Repeat("r", i+1))
				}
				require.NoError(t, wt.Checkout(&git.CheckoutOptions{Branch: branch}))
			}
			for i := 0; i < tc.local; i++ {
				commit(t, wt, dir, "local.txt", strings.Repeat("l", i+1))
			}
			trackUpstream(t, repo, branch.Short(), upstream)

			st, err := GoGit{WalkLimit: 3}.Status(context.Background(), dir)
			require.NoError(t, err)
			assert.Equal(t, tc.local, st.Ahead)
			assert.Equal(t, tc.remote, st.Behind)
		})
	}
}

func TestGoGitDetachedHead(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)
	wt, err := repo.Worktree()
	require.NoError(t, err)
	hash := commit(t, wt, dir, "a.txt", "a")

	require.NoError(t, wt.Checkout(&git.CheckoutOptions{Hash: hash}))

	st, err := GoGit{}.Status(context.Background(), dir)
	require.NoError(t, err)
	assert.True(t, st.Detached)
	assert.Equal(t, hash.String()[:7], st.Branch)
}

func TestGoGitNotRepository(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	if _, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true}); err == nil {
		t.Skip("temporary directory is inside a git repository")
	}

	_, err := GoGit{}.Status(context.Background(), dir)
	require.ErrorIs(t, err, ErrNotRepository)
	require.ErrorIs(t, err, apperrors.NotFound)
}
