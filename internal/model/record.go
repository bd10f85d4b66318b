package model

// Record is a generic four-field entry stamped with who last touched it.
// All four value fields are nullable.
type Record struct {
	ID                   uint     `gorm:"primaryKey" json:"id"`
	Timestamp            *float64 `gorm:"column:timestamp" json:"timestamp"`
	Value1               *string  `gorm:"column:value1;type:varchar(255)" json:"value1"`
	Value2               *float64 `gorm:"column:value2" json:"value2"`
	Value3               *bool    `gorm:"column:value3" json:"value3"`
	CreationDate         int64    `gorm:"column:creationdate;not null" json:"creationdate"`
	LastModificationDate int64    `gorm:"column:lastmodificationdate;not null" json:"lastmodificationdate"`
	LastModifiedBy       string   `gorm:"column:lastmodifiedby;type:varchar(255);not null" json:"lastmodifiedby"`
}

// TableName pins the table name existing deployments already use.
func (Record) TableName() string {
	return "record"
}

// RecordSummary is the reduced projection returned when listing records.
type RecordSummary struct {
	ID             uint     `json:"id"`
	Timestamp      *float64 `json:"timestamp"`
	Value1         *string  `json:"value1"`
	Value2         *float64 `json:"value2"`
	Value3         *bool    `json:"value3"`
	LastModifiedBy string   `json:"lastmodifiedby"`
}

// Summary projects the record for list views.
func (r Record) Summary() RecordSummary {
	return RecordSummary{
		ID:             r.ID,
		Timestamp:      r.Timestamp,
		Value1:         r.Value1,
		Value2:         r.Value2,
		Value3:         r.Value3,
		LastModifiedBy: r.LastModifiedBy,
	}
}

// IsEmpty reports whether none of the four value fields is populated.
func (r Record) IsEmpty() bool {
	return r.Timestamp == nil && r.Value1 == nil && r.Value2 == nil && r.Value3 == nil
}
