package dto

// TechnicianLoadResponse is one row of the workload distribution.
type TechnicianLoadResponse struct {
	TechnicianID   string `json:"technicianId"`
	TechnicianName string `json:"technicianName"`
	TicketCount    int64  `json:"ticketCount"`
}
