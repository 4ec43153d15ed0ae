package usecase

import (
	"context"
	"crypto/md5"
	"encoding/json"
	"fmt"
	"time"

	"github.com/atelierprint/printshop-service/internal/event"
	"github.com/atelierprint/printshop-service/internal/material"
	"github.com/atelierprint/printshop-service/internal/model"
	"github.com/atelierprint/printshop-service/internal/order"
	"github.com/atelierprint/printshop-service/internal/order/dto"
	"github.com/atelierprint/printshop-service/internal/pricing"
	"github.com/atelierprint/printshop-service/pkg/cache"
	"github.com/atelierprint/printshop-service/pkg/logger"
	"github.com/atelierprint/printshop-service/pkg/search"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

var (
	ErrOrderNotFound      = errors.New("order not found")
	ErrInvalidTransition  = errors.New("invalid order status transition")
	ErrMaterialUnpriced   = errors.New("material has no unit price")
	ErrNoRollForSelection = errors.New("no roll matches the selected width")
)

// allowedTransitions is the order lifecycle: reception creates pending,
// production moves it forward, delivery closes it.
var allowedTransitions = map[model.OrderStatus][]model.OrderStatus{
	model.OrderPending:      {model.OrderInProduction, model.OrderCancelled},
	model.OrderInProduction: {model.OrderReady, model.OrderCancelled},
	model.OrderReady:        {model.OrderDelivered},
}

type orderUseCase struct {
	repo      order.Repository
	materials material.UseCase
	cache     *cache.RedisClient
	es        *search.Client
	publisher order.EventPublisher
	logger    logger.ZapLogger
}

func NewOrderUseCase(
	repo order.Repository,
	materials material.UseCase,
	cache *cache.RedisClient,
	es *search.Client,
	publisher order.EventPublisher,
	log logger.ZapLogger,
) order.UseCase {
	return &orderUseCase{
		repo:      repo,
		materials: materials,
		cache:     cache,
		es:        es,
		publisher: publisher,
		logger:    log,
	}
}

func (uc *orderUseCase) Quote(ctx context.Context, input *dto.QuoteInput) (*pricing.PriceResult, pricing.StockCheckResult, error) {
	mat, err := uc.materials.GetMaterial(ctx, input.ShopID, input.MaterialID)
	if err != nil {
		return nil, pricing.StockCheckResult{}, err
	}

	snapshot, _, err := uc.materials.StockSnapshot(ctx, input.ShopID, input.MaterialID)
	if err != nil {
		return nil, pricing.StockCheckResult{}, err
	}

	check := pricing.ValidateStock(input.LengthCm, input.Quantity, snapshot)

	result, err := pricing.CalculateOrderPrice(
		mat, snapshot,
		pricing.Dimensions{Width: input.WidthCm, Length: input.LengthCm},
		input.Quantity, input.Options, input.Special,
	)
	if err != nil {
		return nil, check, err
	}
	return result, check, nil
}

func (uc *orderUseCase) CreateOrder(ctx context.Context, input *dto.CreateOrderInput) (*model.Order, error) {
	mat, err := uc.materials.GetMaterial(ctx, input.ShopID, input.MaterialID)
	if err != nil {
		return nil, err
	}
	if mat.UnitPrice <= 0 && !input.Special {
		return nil, ErrMaterialUnpriced
	}

	// Fresh snapshot right before commit. Still advisory: nothing stops a
	// concurrent create from passing against the same figures; the real
	// decrement happens when the stock listener consumes the event.
	snapshot, rolls, err := uc.materials.StockSnapshot(ctx, input.ShopID, input.MaterialID)
	if err != nil {
		return nil, err
	}

	result, err := pricing.CalculateOrderPrice(
		mat, snapshot,
		pricing.Dimensions{Width: input.WidthCm, Length: input.LengthCm},
		input.Quantity, input.Options, input.Special,
	)
	if err != nil {
		return nil, err
	}

	var rollID string
	for _, r := range rolls {
		if r.Width == result.SelectedWidth {
			rollID = r.ID
			break
		}
	}
	if rollID == "" {
		return nil, ErrNoRollForSelection
	}

	number, err := uc.nextOrderNumber(ctx, input.ShopID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	var clientID *string
	if input.ClientID != "" {
		clientID = &input.ClientID
	}
	var notes *string
	if input.Notes != "" {
		notes = &input.Notes
	}
	var createdBy *string
	if input.UserID != "" {
		createdBy = &input.UserID
	}

	o := &model.Order{
		BaseModel:          model.BaseModel{ID: uuid.New().String(), CreatedAt: now, UpdatedAt: now},
		ShopID:             input.ShopID,
		Number:             number,
		ClientID:           clientID,
		ClientName:         input.ClientName,
		MaterialID:         input.MaterialID,
		RollID:             rollID,
		WidthCm:            input.WidthCm,
		LengthCm:           input.LengthCm,
		Quantity:           input.Quantity,
		Options:            input.Options,
		SelectedWidth:      result.SelectedWidth,
		MaterialLengthUsed: result.MaterialLengthUsed,
		AreaSqm:            result.TotalArea,
		BasePrice:          result.BasePrice,
		OptionsCost:        result.OptionsCost,
		TotalPrice:         result.TotalPrice,
		Special:            input.Special,
		Status:             model.OrderPending,
		Notes:              notes,
		CreatedBy:          createdBy,
	}
	if o.Options == nil {
		o.Options = model.SelectedOptions{}
	}

	if err := uc.repo.Create(ctx, o); err != nil {
		return nil, err
	}

	uc.publishOrderEvent(ctx, event.OrderCreated, o, input.UserRole)

	// Invalidate Cache
	go uc.invalidateOrderCache(context.Background(), o.ShopID)
	// Sync to Elastic
	go uc.syncToElastic(context.Background(), o)

	return o, nil
}

func (uc *orderUseCase) nextOrderNumber(ctx context.Context, shopID string) (string, error) {
	day := time.Now().Format("20060102")
	seq, err := uc.repo.NextSequence(ctx, shopID, day)
	if err != nil {
		return "", errors.Wrap(err, "order number sequence")
	}
	return fmt.Sprintf("CMD-%s-%04d", day, seq), nil
}

func (uc *orderUseCase) GetOrder(ctx context.Context, shopID, id string) (*model.Order, error) {
	o, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if o == nil || o.ShopID != shopID {
		return nil, ErrOrderNotFound
	}
	return o, nil
}

func (uc *orderUseCase) ListOrders(ctx context.Context, filters *dto.OrderFilters) ([]model.Order, int, error) {
	cacheKey, err := uc.generateCacheKey(filters)
	if err == nil && uc.cache != nil {
		val, err := uc.cache.Client.Get(ctx, cacheKey).Result()
		if err == nil {
			var result struct {
				Orders []model.Order
				Count  int
			}
			if err := json.Unmarshal([]byte(val), &result); err == nil {
				// Cache Hit
				return result.Orders, result.Count, nil
			}
		}
	}

	// Search via Elastic when a query is present
	if filters.SearchQuery != "" && uc.es != nil {
		q := map[string]interface{}{
			"query": map[string]interface{}{
				"bool": map[string]interface{}{
					"must": []map[string]interface{}{
						{
							"query_string": map[string]interface{}{
								"query":  fmt.Sprintf("*%s*", filters.SearchQuery),
								"fields": []string{"client_name^3", "number"},
							},
						},
						{
							"term": map[string]interface{}{
								"shop_id": filters.ShopID,
							},
						},
					},
				},
			},
			"from": (filters.Page - 1) * filters.PageSize,
		}
		if filters.PageSize > 0 {
			q["size"] = filters.PageSize
		}

		res, err := uc.es.Search(ctx, "orders", q)
		if err == nil {
			var esOrders []model.Order
			for _, hit := range res.Hits.Hits {
				var o model.Order
				if err := json.Unmarshal(hit.Source, &o); err == nil {
					esOrders = append(esOrders, o)
				}
			}
			return esOrders, res.Hits.Total.Value, nil
		}
		// If ES fails, fall through to DB
		uc.logger.Error("ES search failed, falling back to DB", zap.Error(err))
	}

	orders, count, err := uc.repo.FindAll(ctx, filters)
	if err != nil {
		return nil, 0, err
	}

	if cacheKey != "" && uc.cache != nil {
		cacheData := struct {
			Orders []model.Order
			Count  int
		}{
			Orders: orders,
			Count:  count,
		}
		if data, err := json.Marshal(cacheData); err == nil {
			uc.cache.Client.Set(ctx, cacheKey, data, 5*time.Minute)
		}
	}

	return orders, count, nil
}

func (uc *orderUseCase) UpdateStatus(ctx context.Context, input *dto.UpdateStatusInput) (*model.Order, error) {
	o, err := uc.repo.FindByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	if o == nil || o.ShopID != input.ShopID {
		return nil, ErrOrderNotFound
	}

	if !transitionAllowed(o.Status, input.Status) {
		return nil, errors.Wrapf(ErrInvalidTransition, "%s -> %s", o.Status, input.Status)
	}

	o.Status = input.Status
	o.UpdatedAt = time.Now()

	if err := uc.repo.Update(ctx, o); err != nil {
		return nil, err
	}

	switch input.Status {
	case model.OrderReady:
		uc.publishOrderEvent(ctx, event.ProductionComplete, o, input.UserRole)
	case model.OrderDelivered:
		uc.publishOrderEvent(ctx, event.OrderCompleted, o, input.UserRole)
	}

	go uc.invalidateOrderCache(context.Background(), o.ShopID)
	go uc.syncToElastic(context.Background(), o)

	return o, nil
}

func (uc *orderUseCase) DeleteOrder(ctx context.Context, shopID, id string) error {
	o, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if o == nil || o.ShopID != shopID {
		return nil // Already deleted
	}

	if err := uc.repo.Delete(ctx, id); err != nil {
		return err
	}

	go uc.invalidateOrderCache(context.Background(), shopID)
	if uc.es != nil {
		go func() {
			if err := uc.es.Delete(context.Background(), "orders", id); err != nil {
				uc.logger.Error("failed to delete order from ES", zap.Error(err))
			}
		}()
	}
	return nil
}

func transitionAllowed(from, to model.OrderStatus) bool {
	for _, s := range allowedTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

func (uc *orderUseCase) publishOrderEvent(ctx context.Context, eventType string, o *model.Order, role string) {
	if uc.publisher == nil {
		return
	}
	ev := event.OrderEvent{
		EventID:   uuid.New().String(),
		EventType: eventType,
		Payload: event.OrderPayload{
			ID:                 o.ID,
			ShopID:             o.ShopID,
			Number:             o.Number,
			ClientName:         o.ClientName,
			MaterialID:         o.MaterialID,
			WidthCm:            o.WidthCm,
			MaterialLengthUsed: o.MaterialLengthUsed,
			TotalPrice:         o.TotalPrice,
			Status:             string(o.Status),
			CreatedByRole:      role,
		},
		Timestamp: time.Now(),
	}

	data, err := json.Marshal(ev)
	if err != nil {
		uc.logger.Error("failed to marshal order event", zap.Error(err))
		return
	}
	if err := uc.publisher.Publish(ctx, o.ID, eventType, data); err != nil {
		uc.logger.Error("failed to publish order event",
			zap.String("event_type", eventType),
			zap.String("order_id", o.ID),
			zap.Error(err),
		)
	}
}

func (uc *orderUseCase) syncToElastic(ctx context.Context, o *model.Order) {
	if uc.es == nil {
		return
	}
	const indexName = "orders"

	mapping := `{
		"mappings": {
			"properties": {
				"shop_id": { "type": "keyword" },
				"number": { "type": "keyword" },
				"client_name": { "type": "text" },
				"status": { "type": "keyword" },
				"total_price": { "type": "double" },
				"created_at": { "type": "date" }
			}
		}
	}`
	_ = uc.es.CreateIndex(ctx, indexName, mapping)

	if err := uc.es.Index(ctx, indexName, o.ID, o); err != nil {
		uc.logger.Error("failed to index order", zap.Error(err))
	}
}

func (uc *orderUseCase) generateCacheKey(filters *dto.OrderFilters) (string, error) {
	data, err := json.Marshal(filters)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("orders:list:%s:%x", filters.ShopID, md5.Sum(data)), nil
}

func (uc *orderUseCase) invalidateOrderCache(ctx context.Context, shopID string) {
	if uc.cache == nil {
		return
	}
	pattern := fmt.Sprintf("orders:list:%s:*", shopID)
	keys, err := uc.cache.Client.Keys(ctx, pattern).Result()
	if err == nil && len(keys) > 0 {
		uc.cache.Client.Del(ctx, keys...)
	}
}
