package mail

type SyncReportEmailData struct {
	RunID       string
	CampaignID  string
	Synced      int
	Inserted    int
	Updated     int
	SoftDeleted int
	Failed      int
}

type ReportSender struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
	To       string
}
