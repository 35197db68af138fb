package dynamo

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/inspection-api/internal/domain"
)

// ClientRepo provides typed DynamoDB operations for the clients table.
type ClientRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewClientRepo(client *dynamodb.Client, tableName string) *ClientRepo {
	return &ClientRepo{client: client, tableName: tableName}
}

func (r *ClientRepo) Put(ctx context.Context, c *domain.Client) error {
	item, err := attributevalue.MarshalMap(c)
	if err != nil {
		return fmt.Errorf("marshal client: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	return err
}

func (r *ClientRepo) Get(ctx context.Context, clientID string) (*domain.Client, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("client_id", clientID),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("client not found: %w", domain.ErrNotFound)
	}
	var c domain.Client
	if err := attributevalue.UnmarshalMap(out.Item, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *ClientRepo) ListByCompany(ctx context.Context, companyID string) ([]domain.Client, error) {
	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:                 aws.String(r.tableName),
		IndexName:                 aws.String("company_id-index"),
		KeyConditionExpression:    aws.String("#c = :v"),
		ExpressionAttributeNames:  map[string]string{"#c": "company_id"},
		ExpressionAttributeValues: map[string]types.AttributeValue{":v": &types.AttributeValueMemberS{Value: companyID}},
	})
	if err != nil {
		return nil, err
	}
	var clients []domain.Client
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &clients); err != nil {
		return nil, err
	}
	return clients, nil
}

func (r *ClientRepo) Update(ctx context.Context, clientID string, updates map[string]interface{}) error {
	updates["updated_at"] = time.Now().UTC().Format(time.RFC3339)
	ue, err := buildUpdateExpr(updates)
	if err != nil {
		return err
	}
	_, err = r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.tableName),
		Key:                       strKey("client_id", clientID),
		UpdateExpression:          aws.String(ue.Expr),
		ExpressionAttributeNames:  ue.Names,
		ExpressionAttributeValues: ue.Values,
	})
	return err
}
