package gitstatus

import (
	"context"
	"errors"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/storer"

	apperrors "github.com/alexisbeaulieu97/promptkit/pkg/errors"
)

// DefaultWalkLimit bounds the commits visited when counting ahead/behind.
const DefaultWalkLimit = 1000

// GoGit reads repositories in-process with go-git.
type GoGit struct {
	// WalkLimit bounds the ahead/behind commit walk; zero means DefaultWalkLimit.
	WalkLimit int
}

func (g GoGit) Status(ctx context.Context, dir string) (Status, error) {
	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		if errors.Is(err, git.ErrRepositoryNotExists) {
			return Status{}, ErrNotRepository
		}
		return Status{}, apperrors.New(apperrors.CodeIO, "open repository", err, map[string]interface{}{"dir": dir})
	}

	var st Status
	head, err := repo.Head()
	switch {
	case errors.Is(err, plumbing.ErrReferenceNotFound):
		// Unborn branch: HEAD points at a branch with no commits yet.
		if ref, refErr := repo.Reference(plumbing.HEAD, false); refErr == nil {
			st.Branch = ref.Target().Short()
		}
	case err != nil:
		return Status{}, apperrors.New(apperrors.CodeIO, "read HEAD", err, map[string]interface{}{"dir": dir})
	case head.Name().IsBranch():
		st.Branch = head.Name().Short()
	default:
		st.Detached = true
		st.Branch = head.Hash().String()[:7]
	}

	if err := ctx.Err(); err != nil {
		return st, err
	}

	wt, err := repo.Worktree()
	if err != nil {
		return st, apperrors.New(apperrors.CodeIO, "open worktree", err, map[string]interface{}{"dir": dir})
	}
	files, err := wt.Status()
	if err != nil {
		return st, apperrors.New(apperrors.CodeIO, "worktree status", err, map[string]interface{}{"dir": dir})
	}
	for _, fs := range files {
		switch {
		case fs.Staging == git.Untracked:
			st.Untracked++
		case fs.Staging == git.UpdatedButUnmerged || fs.Worktree == git.UpdatedButUnmerged:
			st.Conflicted++
		default:
			if fs.Staging != git.Unmodified {
				st.Staged++
			}
			if fs.Worktree != git.Unmodified {
				st.Unstaged++
			}
		}
	}

	if head == nil || st.Detached {
		return st, nil
	}
	if err := g.upstream(ctx, repo, head, &st); err != nil {
		return st, err
	}
	return st, nil
}

func (g GoGit) upstream(ctx context.Context, repo *git.Repository, head *plumbing.Reference, st *Status) error {
	cfg, err := repo.Config()
	if err != nil {
		return nil
	}
	branch, ok := cfg.Branches[st.Branch]
	if !ok || branch.Remote == "" || branch.Merge == "" {
		return nil
	}
	remoteRef := plumbing.NewRemoteReferenceName(branch.Remote, branch.Merge.Short())
	ref, err := repo.Reference(remoteRef, true)
	if err != nil {
		return nil
	}
	st.Upstream = remoteRef.Short()
	if ref.Hash() == head.Hash() {
		return nil
	}

	limit := g.WalkLimit
	if limit <= 0 {
		limit = DefaultWalkLimit
	}
	local, err := repo.CommitObject(head.Hash())
	if err != nil {
		return apperrors.New(apperrors.CodeIO, "read HEAD commit", err, nil)
	}
	remote, err := repo.CommitObject(ref.Hash())
	if err != nil {
		return apperrors.New(apperrors.CodeIO, "read upstream commit", err, map[string]interface{}{"upstream": st.Upstream})
	}
	bases, err := local.MergeBase(remote)
	if err != nil {
		return apperrors.New(apperrors.CodeIO, "find merge base", err, map[string]interface{}{"upstream": st.Upstream})
	}

	if st.Ahead, err = countSince(ctx, local, bases, limit); err != nil {
		return err
	}
	if st.Behind, err = countSince(ctx, remote, bases, limit); err != nil {
		return err
	}
	return nil
}

// countSince counts the commits reachable from tip but not from any of bases,
// visiting at most limit commits on each side.
func countSince(ctx context.Context, tip *object.Commit, bases []*object.Commit, limit int) (int, error) {
	ignore := make([]plumbing.Hash, 0, len(bases))
	for _, b := range bases {
		ignore = append(ignore, b.Hash)
	}

	pending := make(map[plumbing.Hash]bool)
	err := object.NewCommitPreorderIter(tip, nil, ignore).ForEach(func(c *object.Commit) error {
		if len(pending) >= limit {
			return storer.ErrStop
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		pending[c.Hash] = true
		return nil
	})
	if err != nil {
		return 0, err
	}

	// A merged side branch can lead back into history the bases already hold.
	for _, b := range bases {
		if len(pending) == 0 {
			break
		}
		visited := 0
		err := object.NewCommitPreorderIter(b, nil, nil).ForEach(func(c *object.Commit) error {
			if visited >= limit || len(pending) == 0 {
				return storer.ErrStop
			}
			if err := ctx.Err(); err != nil {
				return err
			}
			visited++
			delete(pending, c.Hash)
			return nil
		})
		if err != nil {
			return 0, err
		}
	}
	return len(pending), nil
}
