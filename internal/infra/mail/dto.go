package mail

type LeadCreatedEmailData struct {
	OwnerEmail string
	FullName   string
	Email      string
	Phone      string
	Status     string
	NextStep   string
}

type EmailSender struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
}
