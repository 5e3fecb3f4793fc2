package render

type ConnectErrorPageData struct {
	Title   string
	Message string
}
