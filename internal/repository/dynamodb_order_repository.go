package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/rs/zerolog"

	"github.com/cypherlabdev/order-service/internal/models"
)

const (
	dynamoEntryDateIndex = "entity-entry_date-index"
	dynamoOrderEntity    = "order"

	// Reserved item holding the ID sequence; it has no entity attribute so
	// it never appears in the entry-date index.
	dynamoCounterID = "0"

	// Fixed width so lexicographic order matches chronological order
	dynamoEntryDateLayout = "2006-01-02T15:04:05.000000000Z07:00"
)

// DynamoDBAPI is the subset of *dynamodb.Client used by the repository
type DynamoDBAPI interface {
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	UpdateItem(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
	DescribeTable(ctx context.Context, params *dynamodb.DescribeTableInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DescribeTableOutput, error)
}

type orderItem struct {
	ID          int64  `dynamodbav:"id"`
	Entity      string `dynamodbav:"entity"`
	Name        string `dynamodbav:"name"`
	Description string `dynamodbav:"description"`
	EntryDate   string `dynamodbav:"entry_date"`
	IsInvoiced  bool   `dynamodbav:"is_invoiced"`
	IsDeleted   bool   `dynamodbav:"is_deleted"`
}

// DynamoOrderRepository persists orders in DynamoDB.
//
// Table requirements:
//   - PK: id (number)
//   - GSI entity-entry_date-index: PK entity (string), SK entry_date (string)
//
// IDs come from an atomic ADD on the reserved counter item.
type DynamoOrderRepository struct {
	ddb       DynamoDBAPI
	tableName string
	logger    zerolog.Logger
}

var _ OrderStore = (*DynamoOrderRepository)(nil)

// NewDynamoOrderRepository creates a new DynamoDB order repository
func NewDynamoOrderRepository(ddb DynamoDBAPI, tableName string, logger zerolog.Logger) *DynamoOrderRepository {
	return &DynamoOrderRepository{
		ddb:       ddb,
		tableName: tableName,
		logger:    logger.With().Str("component", "dynamodb_order_repository").Logger(),
	}
}

// Insert assigns the next ID and writes the order
func (r *DynamoOrderRepository) Insert(ctx context.Context, order *models.Order) (*models.Order, error) {
	id, err := r.nextID(ctx)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to allocate order id")
		return nil, fmt.Errorf("allocate order id: %w", err)
	}

	stored := *order
	stored.ID = id
	stored.EntryDate = order.EntryDate.UTC()

	av, err := attributevalue.MarshalMap(toOrderItem(&stored))
	if err != nil {
		return nil, fmt.Errorf("marshal order: %w", err)
	}

	_, err = r.ddb.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.tableName),
		Item:                av,
		ConditionExpression: aws.String("attribute_not_exists(#id)"),
		ExpressionAttributeNames: map[string]string{
			"#id": "id",
		},
	})
	if err != nil {
		r.logger.Error().Err(err).
			Int64("order_id", id).
			Msg("failed to put order")
		return nil, fmt.Errorf("put order: %w", err)
	}

	r.logger.Debug().
		Int64("order_id", id).
		Time("entry_date", stored.EntryDate).
		Msg("order inserted")

	return &stored, nil
}

// ListSince queries the entry-date index newest first
func (r *DynamoOrderRepository) ListSince(ctx context.Context, lowerBound time.Time, includeDeleted bool) ([]*models.Order, error) {
	input := &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String(dynamoEntryDateIndex),
		KeyConditionExpression: aws.String("#entity = :entity AND #entry_date >= :lower"),
		ExpressionAttributeNames: map[string]string{
			"#entity":     "entity",
			"#entry_date": "entry_date",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":entity": &types.AttributeValueMemberS{Value: dynamoOrderEntity},
			":lower":  &types.AttributeValueMemberS{Value: formatEntryDate(lowerBound)},
		},
		ScanIndexForward: aws.Bool(false),
	}
	if !includeDeleted {
		input.FilterExpression = aws.String("#is_deleted = :not_deleted")
		input.ExpressionAttributeNames["#is_deleted"] = "is_deleted"
		input.ExpressionAttributeValues[":not_deleted"] = &types.AttributeValueMemberBOOL{Value: false}
	}

	orders := make([]*models.Order, 0)
	paginator := dynamodb.NewQueryPaginator(r.ddb, input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			r.logger.Error().Err(err).
				Time("lower_bound", lowerBound).
				Msg("failed to query orders")
			return nil, fmt.Errorf("query orders since: %w", err)
		}

		var items []orderItem
		if err := attributevalue.UnmarshalListOfMaps(page.Items, &items); err != nil {
			return nil, fmt.Errorf("unmarshal orders: %w", err)
		}
		for _, it := range items {
			order, err := fromOrderItem(it)
			if err != nil {
				return nil, err
			}
			orders = append(orders, order)
		}
	}

	// Equal timestamps come back in undefined order
	sortNewestFirst(orders)
	return orders, nil
}

// Ping checks the table is reachable
func (r *DynamoOrderRepository) Ping(ctx context.Context) error {
	_, err := r.ddb.DescribeTable(ctx, &dynamodb.DescribeTableInput{
		TableName: aws.String(r.tableName),
	})
	return err
}

func (r *DynamoOrderRepository) nextID(ctx context.Context) (int64, error) {
	out, err := r.ddb.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberN{Value: dynamoCounterID},
		},
		UpdateExpression: aws.String("ADD #seq :one"),
		ExpressionAttributeNames: map[string]string{
			"#seq": "seq",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":one": &types.AttributeValueMemberN{Value: "1"},
		},
		ReturnValues: types.ReturnValueUpdatedNew,
	})
	if err != nil {
		return 0, err
	}

	seq, ok := out.Attributes["seq"].(*types.AttributeValueMemberN)
	if !ok {
		return 0, errors.New("counter update returned no sequence")
	}
	return strconv.ParseInt(seq.Value, 10, 64)
}

func formatEntryDate(t time.Time) string {
	return t.UTC().Format(dynamoEntryDateLayout)
}

func toOrderItem(o *models.Order) orderItem {
	return orderItem{
		ID:          o.ID,
		Entity:      dynamoOrderEntity,
		Name:        o.Name,
		Description: o.Description,
		EntryDate:   formatEntryDate(o.EntryDate),
		IsInvoiced:  o.IsInvoiced,
		IsDeleted:   o.IsDeleted,
	}
}

func fromOrderItem(it orderItem) (*models.Order, error) {
	entryDate, err := time.Parse(dynamoEntryDateLayout, it.EntryDate)
	if err != nil {
		return nil, fmt.Errorf("parse entry_date of order %d: %w", it.ID, err)
	}
	return &models.Order{
		ID:          it.ID,
		Name:        it.Name,
		Description: it.Description,
		EntryDate:   entryDate.UTC(),
		IsInvoiced:  it.IsInvoiced,
		IsDeleted:   it.IsDeleted,
	}, nil
}
