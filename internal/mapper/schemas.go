package mapper

// TradeSchema is the output layout of TradeGetByUser extracts.
var TradeSchema = newSchema("Trades",
	integer("TradeNumber"),
	integer("OrderNumber"),
	text("AccountCode"),
	text("SecurityCode"),
	text("Exchange"),
	sedol(),
	isin(),
	text("Destination"),
	text("SubDestination"),
	side("BuyOrSell"),
	decimal("TradeVolume"),
	decimal("TradePrice"),
	decimal("TradeValue"),
	decimal("TradeFXRate"),
	timestamp("TradeDateTime"),
	flag("Principal"),
	integer("OpposingBrokerNumber"),
	text("PrimaryClientOrderID"),
	text("SecondaryClientOrderID"),
	text("TradeMarkers"),
	text("DestinationUserID"),
	text("DestinationOrderNumber"),
	text("DestinationTradeNumber"),
	integer("CancelledByTradeNumber"),
	integer("MarketDataOrderNumber"),
	integer("MarketDataTradeNumber"),
	decimal("FXRateBidPriceOnOrder"),
	decimal("FXRateAskPriceOnOrder"),
	decimal("FXRateBidPriceOnTrade"),
	decimal("FXRateAskPriceOnTrade"),
	decimal("SourcePrice"),
	text("SourceCurrency"),
	text("SideCode"),
	text("OrderDetails"),
	multiplier("PriceMultiplier"),
	decimal("SettlementValue"),
	decimal("SettlementFXRate"),
	decimal("SettlementPrice"),
	text("Organization"),
	text("BookingDestination"),
	text("TradeMarketDetail"),
	integer("PostTradeStatusNumber"),
	integer("TradeSequenceNumber"),
	timestamp("TradeDateTimeGMT"),
	timestamp("ExchangeTradeDateTime"),
	timestamp("LocalMarketTradeDate"),
)

// AuditTrailSchema is the output layout of AuditTrailGetByUser extracts.
var AuditTrailSchema = newSchema("AuditTrail",
	integer("AuditTrailNumber"),
	integer("OrderNumber"),
	integer("ParentOrderNumber"),
	timestamp("AuditLogDateTime"),
	timestamp("ExchangeDateTime"),
	text("AccountCode"),
	text("SecurityCode"),
	text("Exchange"),
	sedol(),
	isin(),
	text("Destination"),
	text("SubDestination"),
	side("BuyOrSell"),
	text("PricingInstructions"),
	text("OrderState"),
	text("LastAction"),
	text("ActionStatus"),
	decimal("OrderVolume"),
	decimal("OrderPrice"),
	text("EventSummary"),
	text("EventDescription"),
	decimal("DoneVolumeTotal"),
	decimal("DoneValueTotal"),
	text("Lifetime"),
	text("ExecutionInstructions"),
	text("PrimaryClientOrderID"),
	text("SecondaryClientOrderID"),
	text("OrderGroup"),
	text("OrderDetails"),
	timestamp("ExpiryDateTime"),
	text("Currency"),
	text("InternalOrderStatus"),
	text("ExternalOrderStatus"),
	text("PCName"),
	text("EventUserCode"),
	decimal("DestinationVolume"),
	decimal("DestinationPrice"),
	text("DestinationOrderNumber"),
	text("DestinationUserID"),
	integer("LastErrorNumber"),
	decimal("BidPrice"),
	decimal("AskPrice"),
	decimal("BidVolume"),
	decimal("AskVolume"),
	text("CustomColumns"),
	text("OrderMatchID"),
	decimal("RemainingVolume"),
	text("LastActionUserCode"),
	text("WorkedByUserCode"),
	integer("UpdateReasonMask"),
	integer("OrderFlagsMask"),
	integer("MarketDataOrderNumber"),
	text("SideCode"),
	text("OrderGiver"),
	text("OrderTaker"),
	text("BackOfficeStatus"),
	text("BackOfficeStatusDescription"),
	decimal("SettlementDoneValueTotal"),
	decimal("SettlementDoneValueToday"),
	integer("TrailerCodeOnMask"),
	text("TrailerCodes"),
	text("StructuredEventDetails"),
	text("MarketDetail"),
	integer("PostTradeStatusNumber"),
	flag("OrderLocked"),
	text("OrderLockedUserCode"),
	text("AccountDesignation"),
	decimal("OrderValue"),
	text("OrderRoutingType"),
	decimal("AlgoVolume"),
	decimal("AlgoPrice"),
	decimal("AlgoInMarketCount"),
	integer("UpdateReasonMask2"),
	text("AdvisorCode"),
	decimal("EstimatedVolume"),
	decimal("EstimatedPrice"),
	decimal("EstimatedValue"),
	text("ExtraOrderDetails"),
	decimal("WarehouseVolume"),
	text("SecurityDescription"),
	flag("OrderParked"),
)

// OrderSearchSchema is the output layout of OrderSearchGetByUser extracts.
var OrderSearchSchema = newSchema("OrderSearch",
	integer("RootParentOrderNumber"),
	integer("OrderNumber"),
	integer("ParentOrderNumber"),
	text("AccountCode"),
	text("SecurityCode"),
	text("Exchange"),
	sedol(),
	isin(),
	text("Destination"),
	text("SubDestination"),
	side("BuyOrSell"),
	text("PricingInstructions"),
	text("OrderState"),
	text("LastAction"),
	text("ActionStatus"),
	decimal("OrderVolume"),
	decimal("OrderPrice"),
	decimal("RemainingVolume"),
	decimal("DoneVolumeTotal"),
	decimal("DoneValueTotal"),
	decimal("UncommittedVolume"),
	decimal("AveragePrice"),
	text("InternalOrderStatus"),
	text("ExternalOrderStatus"),
	text("Lifetime"),
	text("ExecutionInstructions"),
	text("Currency"),
	text("PrimaryClientOrderID"),
	text("SecondaryClientOrderID"),
	timestamp("ExpiryDateTime"),
	text("OrderGroup"),
	text("OrderDetails"),
	decimal("DoneVolumeToday"),
	decimal("DoneValueToday"),
	text("StateDescription"),
	timestamp("CreateDateTime"),
	timestamp("UpdateDateTime"),
	text("WorkingGroup"),
	text("WorkedByUserCode"),
	timestamp("OrderVWAPStartTime"),
	timestamp("OrderVWAPEndTime"),
	decimal("StartMarketVolume"),
	decimal("StartMarketValue"),
	decimal("DestinationVolume"),
	decimal("DestinationPrice"),
	text("DestinationStatus"),
	text("DestinationOrderNumber"),
	text("DestinationUserID"),
	text("Organisation"),
	decimal("AverageFXRate"),
	flag("Principal"),
	integer("LastErrorNumber"),
	text("CustomColumns"),
	integer("SecurityType"),
	text("OrderMatchID"),
	integer("MarketDataOrderNumber"),
	text("SideCode"),
	text("OrderGiver"),
	text("OrderTaker"),
	text("BackOfficeStatus"),
	text("BackOfficeStatusDescription"),
	decimal("EffectiveDoneVolume"),
	text("SideDescription"),
	multiplier("PriceMultiplier"),
	decimal("SettlementDoneValueTotal"),
	decimal("SettlementDoneValueToday"),
	decimal("SettlementAveragePrice"),
	text("TrailerCodes"),
	text("LastActionUserCode"),
	integer("ClientSequenceNumber"),
	text("MarketDetail"),
	integer("PostTradeStatusNumber"),
	text("OrderLockedUserCode"),
	timestamp("OrderLockedDateTime"),
	text("BackOfficeProvider"),
	text("BasketName"),
	decimal("EstimatedPrice"),
	text("RootParentOrderCreatorUserCode"),
	decimal("OrderValue"),
	text("OrderRoutingType"),
	decimal("AlgoVolume"),
	decimal("AlgoPrice"),
	integer("AlgoInMarketCount"),
	text("AdvisorCode"),
	decimal("EstimatedVolume"),
	decimal("EstimatedValue"),
	text("ExtraOrderDetails"),
	decimal("WarehouseVolume"),
	text("SecurityDescription"),
	decimal("StartVolume"),
	timestamp("OrderParkedDateTime"),
	integer("OrderParkedPreviousElapsedTime"),
	integer("OrderLockedPreviousElapsedTime"),
	decimal("UncommittedValue"),
)
