package dynamo

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/inspection-api/internal/domain"
)

// InspectionRepo provides typed DynamoDB operations for the inspection_videos table.
// PK: inspection_id, with token-index and company_id-index GSIs.
type InspectionRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewInspectionRepo(client *dynamodb.Client, tableName string) *InspectionRepo {
	return &InspectionRepo{client: client, tableName: tableName}
}

// Put inserts a new inspection record. The condition guards against an
// inspection_id collision ever silently overwriting an existing row.
func (r *InspectionRepo) Put(ctx context.Context, i *domain.InspectionVideo) error {
	item, err := attributevalue.MarshalMap(i)
	if err != nil {
		return fmt.Errorf("marshal inspection: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.tableName),
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(inspection_id)"),
	})
	return err
}

func (r *InspectionRepo) Get(ctx context.Context, inspectionID string) (*domain.InspectionVideo, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("inspection_id", inspectionID),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("inspection not found: %w", domain.ErrNotFound)
	}
	var i domain.InspectionVideo
	if err := attributevalue.UnmarshalMap(out.Item, &i); err != nil {
		return nil, err
	}
	return &i, nil
}

// GetByToken looks up a record via the token-index GSI. Token values are
// unique, so the query is limited to one item.
func (r *InspectionRepo) GetByToken(ctx context.Context, token string) (*domain.InspectionVideo, error) {
	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:                 aws.String(r.tableName),
		IndexName:                 aws.String("token-index"),
		KeyConditionExpression:    aws.String("#t = :v"),
		ExpressionAttributeNames:  map[string]string{"#t": "token"},
		ExpressionAttributeValues: map[string]types.AttributeValue{":v": &types.AttributeValueMemberS{Value: token}},
		Limit:                     aws.Int32(1),
	})
	if err != nil {
		return nil, err
	}
	if len(out.Items) == 0 {
		return nil, fmt.Errorf("inspection not found: %w", domain.ErrNotFound)
	}
	var i domain.InspectionVideo
	if err := attributevalue.UnmarshalMap(out.Items[0], &i); err != nil {
		return nil, err
	}
	return &i, nil
}

// CompleteIfPending applies the given updates only while status is still
// pending. It returns transitioned=false (and no error) when another caller
// got there first, so a double submission is observable instead of silently
// overwriting the first upload's metadata.
func (r *InspectionRepo) CompleteIfPending(ctx context.Context, inspectionID string, updates map[string]interface{}) (transitioned bool, err error) {
	ue, err := buildUpdateExpr(updates)
	if err != nil {
		return false, err
	}
	ue.Names["#st"] = "status"
	ue.Values[":pending"] = &types.AttributeValueMemberS{Value: domain.InspectionStatusPending}

	_, err = r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.tableName),
		Key:                       strKey("inspection_id", inspectionID),
		UpdateExpression:          aws.String(ue.Expr),
		ConditionExpression:       aws.String("#st = :pending"),
		ExpressionAttributeNames:  ue.Names,
		ExpressionAttributeValues: ue.Values,
	})
	if err != nil {
		var ccfe *types.ConditionalCheckFailedException
		if errors.As(err, &ccfe) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// ListByCompany returns all inspection records owned by a company, newest
// ids first (ULIDs sort by creation time).
func (r *InspectionRepo) ListByCompany(ctx context.Context, companyID string) ([]domain.InspectionVideo, error) {
	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:                 aws.String(r.tableName),
		IndexName:                 aws.String("company_id-index"),
		KeyConditionExpression:    aws.String("#c = :v"),
		ExpressionAttributeNames:  map[string]string{"#c": "company_id"},
		ExpressionAttributeValues: map[string]types.AttributeValue{":v": &types.AttributeValueMemberS{Value: companyID}},
		ScanIndexForward:          aws.Bool(false),
	})
	if err != nil {
		return nil, err
	}
	var items []domain.InspectionVideo
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &items); err != nil {
		return nil, err
	}
	return items, nil
}
