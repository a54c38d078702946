package db

import (
	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/aws/aws-sdk-go/service/dynamodb/dynamodbattribute"
	"github.com/aws/aws-sdk-go/service/dynamodb/dynamodbiface"
	"github.com/jsphweid/cubemidi/model"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// Recorder keeps a history of imports.
type Recorder interface {
	Record(r model.ImportRecord) error
}

// Nop drops every record. It is used when no table is configured.
type Nop struct{}

func (Nop) Record(model.ImportRecord) error { return nil }

type DynamoRecorder struct {
	client dynamodbiface.DynamoDBAPI
	table  string
}

func NewDynamoRecorder(client dynamodbiface.DynamoDBAPI, table string) *DynamoRecorder {
	return &DynamoRecorder{client: client, table: table}
}

// Connect opens a DynamoDB session against endpoint, which is usually a
// local DynamoDB.
func Connect(endpoint, region, table string) (*DynamoRecorder, error) {
	cfg := &aws.Config{Region: aws.String(region)}
	if endpoint != "" {
		cfg.Endpoint = aws.String(endpoint)
	}
	sess, err := session.NewSession(cfg)
	if err != nil {
		return nil, errors.Wrap(err, "Could not create a new DynamoDB session")
	}
	return NewDynamoRecorder(dynamodb.New(sess), table), nil
}

func (d *DynamoRecorder) Record(r model.ImportRecord) error {
	item, err := dynamodbattribute.MarshalMap(r)
	if err != nil {
		return errors.Wrap(err, "Could not marshal import record")
	}
	_, err = d.client.PutItem(&dynamodb.PutItemInput{
		TableName: aws.String(d.table),
		Item:      item,
	})
	if err != nil {
		return errors.Wrap(err, "Error from DynamoDB")
	}
	log.WithFields(log.Fields{"run": r.RunID, "table": d.table}).Debug("Recorded import")
	return nil
}

func (d *DynamoRecorder) Get(runID string) (*model.ImportRecord, error) {
	out, err := d.client.GetItem(&dynamodb.GetItemInput{
		TableName: aws.String(d.table),
		Key: map[string]*dynamodb.AttributeValue{
			"PK": {S: aws.String(runID)},
		},
	})
	if err != nil {
		return nil, errors.Wrap(err, "Error from DynamoDB")
	}
	if len(out.Item) == 0 {
		return nil, nil
	}
	var r model.ImportRecord
	if err := dynamodbattribute.UnmarshalMap(out.Item, &r); err != nil {
		return nil, errors.Wrap(err, "Could not unmarshal import record")
	}
	return &r, nil
}

// ForFile lists the imports of one MIDI file.
func (d *DynamoRecorder) ForFile(file string) ([]model.ImportRecord, error) {
	var res []model.ImportRecord
	input := &dynamodb.ScanInput{
		TableName:        aws.String(d.table),
		FilterExpression: aws.String("#f = :f"),
		ExpressionAttributeNames: map[string]*string{
			"#f": aws.String("File"),
		},
		ExpressionAttributeValues: map[string]*dynamodb.AttributeValue{
			":f": {S: aws.String(file)},
		},
	}
	var unmarshalErr error
	err := d.client.ScanPages(input, func(page *dynamodb.ScanOutput, lastPage bool) bool {
		var records []model.ImportRecord
		if unmarshalErr = dynamodbattribute.UnmarshalListOfMaps(page.Items, &records); unmarshalErr != nil {
			return false
		}
		res = append(res, records...)
		return true
	})
	if err != nil {
		return nil, errors.Wrap(err, "Error from DynamoDB")
	}
	if unmarshalErr != nil {
		return nil, errors.Wrap(unmarshalErr, "Could not unmarshal import records")
	}
	return res, nil
}
