package git

// IClient is the version-control surface the pipeline needs: repository
// detection, run naming, and branch switching between benchmark passes.
type IClient interface {
	RepoExists(directory string) bool
	CurrentCommitSHA(directory string) (string, error)
	CurrentBranch(directory string) (string, error)
	Checkout(directory, ref string) error
	RepoName(directory string) (string, error)
}
