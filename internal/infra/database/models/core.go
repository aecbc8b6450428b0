package models

import (
	"time"
)

type AliasData struct {
	ID        string    `json:"id" gorm:"primaryKey;type:text"`
	AliasName string    `json:"aliasName" gorm:"type:text;not null;uniqueIndex:idx_alias_data_name_kind"`
	Kind      string    `json:"kind" gorm:"type:text;not null;uniqueIndex:idx_alias_data_name_kind"`
	Payload   string    `json:"payload" gorm:"type:text;not null"`
	CDate     time.Time `json:"cdate" gorm:"autoCreateTime"`
	MDate     time.Time `json:"mdate" gorm:"autoUpdateTime"`
}

type OfferReport struct {
	ID       string    `json:"id" gorm:"primaryKey;type:text"`
	Kind     string    `json:"kind" gorm:"type:text;not null"`
	GUID     string    `json:"guid" gorm:"type:text;index"`
	Reporter string    `json:"reporter" gorm:"type:text;not null"`
	Payload  string    `json:"payload" gorm:"type:text;not null"`
	CDate    time.Time `json:"cdate" gorm:"autoCreateTime"`
}

func (AliasData) TableName() string { return "alias_data" }

func (OfferReport) TableName() string { return "offer_reports" }
