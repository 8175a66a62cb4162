package urls

// DefaultEndpoint is the hosted mock collection used when no endpoint is
// configured. Records on it are shared with every other user.
const DefaultEndpoint = "https://6454008bc18adbbdfead590d.mockapi.io/api/v1/api_todolist"

// Project is the source repository.
const Project = "https://github.com/muurk/todolist"

// GettingStarted is the quick start guide for new users.
const GettingStarted = "https://github.com/muurk/todolist#getting-started"

// LocalServer explains running todolist-server and pointing clients at it.
const LocalServer = "https://github.com/muurk/todolist#local-server"

// Troubleshooting covers common endpoint and network issues.
const Troubleshooting = "https://github.com/muurk/todolist#troubleshooting"
