package cfg

type Cfg struct {
	// Jira configuration
	JiraHost       string
	CertFile       string
	KeyFile        string
	RequestTimeout int
	MaxResults     int

	// Application configuration
	SourcesDir        string
	DBPath            string
	Port              string
	WorkerCount       int
	SchedulerInterval int
	APIAccessKey      string

	// Application metadata
	UserAgent string
	Timezone  string
	Debug     bool
	Version   string
}
