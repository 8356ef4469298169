package consts

// Recommended permissions for different types of files and directories ytdl might create.
const (
	// ** World Readable **
	PermsGenericDir  = 0o755
	PermsStoreDir    = 0o755
	PermsSnapshot    = 0o644
	PermsLogFile     = 0o644
	PermsExecutable  = 0o755
	PermsHomeProgDir = 0o755

	// ** Private **
	PermsCookieDir  = 0o750
	PermsCookieFile = 0o600
)
